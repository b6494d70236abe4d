package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GetVersion возвращает версию сборки (заполняется через -ldflags).
func GetVersion() string { return version }

// String возвращает полную информацию о сборке.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
