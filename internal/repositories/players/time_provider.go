package players

import "time"

//go:generate mockgen -destination=mocks/mock_time_provider.go -package=mocks github.com/KirkDiggler/shinobi-bot/internal/repositories/players TimeProvider

// TimeProvider lets tests pin record timestamps
type TimeProvider interface {
	Now() time.Time
}

type utcTimeProvider struct{}

// NewTimeProvider returns a TimeProvider backed by the wall clock, in UTC
func NewTimeProvider() TimeProvider {
	return utcTimeProvider{}
}

func (utcTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
