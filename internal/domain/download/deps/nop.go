package deps

// NopMetrics discards all events
type NopMetrics struct{}

func (NopMetrics) RecordInlineQuery(string) {}
func (NopMetrics) JobStarted() {}
func (NopMetrics) JobFinished(string, float64) {}
func (NopMetrics) RecordRejection(string) {}
func (NopMetrics) RecordDownload(float64, int64) {}
func (NopMetrics) RecordRetry(string) {}
func (NopMetrics) RecordAuthFallback(string) {}
func (NopMetrics) RecordRecoveryTier(string, bool) {}
func (NopMetrics) SetRateLimitEntries(int) {}
