package mock

import (
	"context"

	"github.com/fwojciec/tracestrip"
)

var _ tracestrip.SettingsService = (*SettingsService)(nil)

// SettingsService is a mock implementation of tracestrip.SettingsService.
type SettingsService struct {
	FindSettingsFn   func(ctx context.Context) (*tracestrip.Settings, error)
	UpdateSettingsFn func(ctx context.Context, settings *tracestrip.Settings) error
}

func (s *SettingsService) FindSettings(ctx context.Context) (*tracestrip.Settings, error) {
	return s.FindSettingsFn(ctx)
}

func (s *SettingsService) UpdateSettings(ctx context.Context, settings *tracestrip.Settings) error {
	return s.UpdateSettingsFn(ctx, settings)
}
