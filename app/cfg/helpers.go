package cfg

import (
	"time"
)

// GetPollInterval returns the source polling interval as time.Duration
func (c *Cfg) GetPollInterval() time.Duration {
	if c.PollInterval <= 0 {
		return 60 * time.Second // default 1 minute
	}
	return time.Duration(c.PollInterval) * time.Second
}
