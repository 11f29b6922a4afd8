package server

// ANSI colours for the DEV route listing.
const (
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorGray    = "\033[90m"
	colorReset   = "\033[0m"
)

var methodColors = map[string]string{
	"GET":    colorGreen,
	"POST":   colorBlue,
	"PUT":    colorCyan,
	"DELETE": colorYellow,
	"PATCH":  colorMagenta,
}
