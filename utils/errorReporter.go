package utils

import (
	"log"

	"kaifacademy/config"

	"github.com/rollbar/rollbar-go"
)

// InitErrorReporter configures rollbar. Reporting stays disabled without a token.
func InitErrorReporter(cfg *config.Config) {
	rollbar.SetToken(cfg.RollbarToken)
	rollbar.SetEnvironment(cfg.Env)
	rollbar.SetCodeVersion("kaifacademy")
	rollbar.SetEnabled(cfg.RollbarToken != "")
	if cfg.RollbarToken == "" {
		log.Println("[ROLLBAR] ROLLBAR_TOKEN not set, error reporting disabled")
	}
}

// ReportError sends err with optional extras to rollbar
func ReportError(err error, extras map[string]interface{}) {
	if err == nil {
		return
	}
	if extras != nil {
		rollbar.Error(err, extras)
		return
	}
	rollbar.Error(err)
}

// CloseErrorReporter flushes queued reports
func CloseErrorReporter() {
	rollbar.Close()
}
