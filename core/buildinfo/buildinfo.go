package buildinfo

// Set at build time:
//
//	-X 'github.com/m3rciful/faqbot/core/buildinfo.Version=v0.3.0'
//	-X 'github.com/m3rciful/faqbot/core/buildinfo.Commit=abcdef0'
//	-X 'github.com/m3rciful/faqbot/core/buildinfo.Date=2025-10-01T12:00:00Z'
var (
	// Version is the release tag of the binary.
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "local"
	// Date is the RFC3339 build timestamp.
	Date = ""
)

// Service is the name reported by health endpoints and startup logs.
const Service = "faqbot"
