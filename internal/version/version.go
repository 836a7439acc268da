package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/infraguys/genesis-templates/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/infraguys/genesis-templates/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/infraguys/genesis-templates/internal/version.Date={{.Date}}
)
