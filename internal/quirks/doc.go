// Package quirks carries per-SKU static overrides for Govee devices whose
// self-reported API metadata is wrong, incomplete, or needs a nicer Home
// Assistant icon than a generic default.
//
// The built-in table is populated from the devices documented at Govee's
// LAN API guide plus a handful of SKUs with known-broken Platform API
// metadata. An optional YAML file layered on top lets an operator add or
// override entries without a rebuild.
package quirks
