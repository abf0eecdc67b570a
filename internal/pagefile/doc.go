// SPDX-License-Identifier: MPL-2.0

// Package pagefile turns directories of CUE page files into extension
// sources. A file named reports.cue declares the page keyed "reports":
//
//	implementations: [
//		{name: "base", label: "Reports", icon: "chart", order: 20},
//		{name: "quarterly", extends: "base", label: "Reports (Q)", content: "# Q3"},
//	]
//
// Files are parsed lazily when discovery asks for candidates, so a broken
// file only costs its own page.
package pagefile
