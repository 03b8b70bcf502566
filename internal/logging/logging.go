package logging

import "go.uber.org/zap"

// New returns a production logger unless env is "development".
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
