package jats

import "regexp"

var licenseURLPattern = regexp.MustCompile(`creativecommons\.org/licenses/([a-zA-Z-]+)`)

// permissions bundles the Permissions & License extractor's output fields
// (spec §4.6): copyright statement, license type, and the full license
// paragraph text. The copyright year is not extracted as a field of its own.
type permissions struct {
	CopyrightStatement string
	LicenseType        string
	LicenseText        string
}

// ExtractPermissions implements the Permissions & License extractor (C6).
func ExtractPermissions(root *Node) permissions {
	var result permissions

	for _, perm := range root.FindAll("permissions") {
		if cs := perm.FirstChild("copyright-statement"); cs != nil {
			result.CopyrightStatement = Text(cs)
		}

		license := perm.FirstChild("license")
		if license == nil {
			continue
		}
		result.LicenseType = license.Attr("license-type")

		var parts []string
		for _, p := range license.Children("license-p") {
			parts = append(parts, Text(p))
		}
		result.LicenseText = joinWithSpace(parts)

		if result.LicenseType == "" {
			if m := licenseURLPattern.FindStringSubmatch(result.LicenseText); m != nil {
				result.LicenseType = "CC-" + m[1]
			}
		}
	}

	return result
}
