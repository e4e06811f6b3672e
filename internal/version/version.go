package version

// Version is the current version of the algocall CLI.
// This value can be overridden at build time using:
//   go build -ldflags="-X 'github.com/Naveenpl1081/algonest-call/internal/version.Version=v1.0.0'"
var Version = "dev"
