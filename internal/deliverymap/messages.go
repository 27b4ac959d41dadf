package deliverymap

import (
	"fmt"
	"strconv"
	"strings"
)

// Messages is the status text catalog for one locale.
type Messages struct {
	Initial          string
	InRange          string
	OutOfRange       string
	DistancePrefix   string
	MaxLimit         string
	ETAPrefix        string
	ETAUnit          string
	ProcessingFailed string
	NotFound         string
	SearchError      string
	Locating         string
	GeoDenied        string
	GeoUnavailable   string
	GeoTimeout       string
	GeoUnsupported   string
}

var catalogs = map[string]Messages{
	"en": {
		Initial:          "Enter an address to check the delivery area",
		InRange:          "✓ Your address is within the delivery area",
		OutOfRange:       "✕ Sorry, your address is outside the delivery area",
		DistancePrefix:   "Distance:",
		MaxLimit:         "(maximum: %s km)",
		ETAPrefix:        "Estimated delivery time:",
		ETAUnit:          "minutes",
		ProcessingFailed: "Failed to process the location. Please try again.",
		NotFound:         "Address not found. Please check the address you entered.",
		SearchError:      "Something went wrong while searching for the address",
		Locating:         "Detecting your location...",
		GeoDenied:        "Please allow location access.",
		GeoUnavailable:   "Unable to get your location.",
		GeoTimeout:       "Getting your location timed out. Please try again.",
		GeoUnsupported:   "Location is not supported on this device.",
	},
	"id": {
		Initial:          "Masukkan alamat untuk cek area pengiriman",
		InRange:          "✓ Alamat berada dalam jangkauan pengiriman",
		OutOfRange:       "✕ Maaf, alamat di luar jangkauan pengiriman",
		DistancePrefix:   "Jarak:",
		MaxLimit:         "(Maksimal: %s km)",
		ETAPrefix:        "Estimasi waktu pengiriman:",
		ETAUnit:          "menit",
		ProcessingFailed: "Gagal memproses lokasi. Silakan coba lagi.",
		NotFound:         "Alamat tidak dapat ditemukan. Mohon periksa kembali alamat yang dimasukkan.",
		SearchError:      "Terjadi kesalahan saat mencari alamat",
		Locating:         "Mendeteksi lokasi Anda...",
		GeoDenied:        "Mohon izinkan akses lokasi.",
		GeoUnavailable:   "Tidak dapat mendapatkan lokasi Anda.",
		GeoTimeout:       "Waktu mendapatkan lokasi habis. Silakan coba lagi.",
		GeoUnsupported:   "Fitur lokasi tidak didukung di perangkat Anda.",
	},
}

// MessagesFor returns the catalog for locale ("id", "en", "en-US", ...),
// falling back to Indonesian.
func MessagesFor(locale string) Messages {
	l := strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(l, "-_"); i > 0 {
		l = l[:i]
	}
	if m, ok := catalogs[l]; ok {
		return m
	}
	return catalogs["id"]
}

// DistanceLine renders "Distance: 3.2 km".
func (m Messages) DistanceLine(km string) string {
	return fmt.Sprintf("%s %s km", m.DistancePrefix, km)
}

// DistanceMaxLine renders "Distance: 15.0 km (maximum: 10 km)".
func (m Messages) DistanceMaxLine(km string, radiusMeters float64) string {
	limit := strconv.FormatFloat(radiusMeters/1000, 'f', -1, 64)
	return m.DistanceLine(km) + " " + fmt.Sprintf(m.MaxLimit, limit)
}

// ETALine renders "Estimated delivery time: 12 minutes".
func (m Messages) ETALine(minutes int) string {
	return fmt.Sprintf("%s %d %s", m.ETAPrefix, minutes, m.ETAUnit)
}
