package geo

import "strings"

// NormalizeCRS turns the common spellings of an EPSG reference
// ("urn:ogc:def:crs:EPSG::25832", "http://www.opengis.net/def/crs/EPSG/0/25832",
// "epsg:25832") into "EPSG:25832". Other names are returned trimmed but unchanged.
// The code is a tag only; navframe never validates or reprojects.
func NormalizeCRS(name string) string {
	name = strings.TrimSpace(name)
	upper := strings.ToUpper(name)
	i := strings.LastIndex(upper, "EPSG")
	if i < 0 {
		return name
	}

	rest := upper[i+len("EPSG"):]
	end := len(rest)
	for end > 0 && rest[end-1] >= '0' && rest[end-1] <= '9' {
		end--
	}
	code := rest[end:]
	if code == "" || strings.Trim(rest[:end], ":/0") != "" {
		return name
	}
	return "EPSG:" + code
}
