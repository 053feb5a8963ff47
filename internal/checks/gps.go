package checks

import (
	"context"
	"math"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

const earthRadiusKM = 6371.0

// Haversine is the default DistanceFunc: great-circle distance in km.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	rad := func(d float64) float64 { return d * math.Pi / 180 }
	dLat := rad(lat2 - lat1)
	dLng := rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKM * math.Asin(math.Sqrt(a))
}

// GPS compares the device/home location against the first EXIF GPS point
// found in the media list. A submission without a device fix is flagged
// GPS_MISSING and nothing else runs.
type GPS struct {
	Distance DistanceFunc
}

func (c GPS) Run(_ context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	if !sub.GPS.Present() {
		res.AddFlag(check.FlagGPSMissing)
		return res
	}
	homeLat, homeLng := *sub.GPS.Lat, *sub.GPS.Lng

	var assetLat, assetLng float64
	found := false
	for _, m := range sub.Media {
		if m.HasGPSExif != nil && *m.HasGPSExif && m.GPSLat != nil && m.GPSLng != nil {
			assetLat, assetLng = *m.GPSLat, *m.GPSLng
			found = true
			break
		}
	}

	if !found {
		res.SetFeature(check.FeatGPSHomeVsAssetKM, nil)
		if rules.GPS.RequireExifGPS {
			res.AddFlag(check.FlagExifGPSMissing)
		}
		return res
	}

	dist := c.Distance(homeLat, homeLng, assetLat, assetLng)
	res.SetFeature(check.FeatGPSHomeVsAssetKM, math.Round(dist*1000)/1000)
	res.SetFeature(check.FeatAssetLocation, map[string]any{"lat": assetLat, "lng": assetLng})
	res.SetFeature(check.FeatHomeLocation, map[string]any{"lat": homeLat, "lng": homeLng})

	if dist > rules.GPS.MaxDistance() {
		res.AddFlag(check.FlagGPSMismatch)
	}
	return res
}
