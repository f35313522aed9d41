// Package html renders wizard views as server-side HTML pages using pongo2
// templates. Section descriptions are sanitised with bluemonday and go-theme
// renderer configs supply CSS variables and asset URLs.
package html
