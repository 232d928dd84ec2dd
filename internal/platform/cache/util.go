package cache

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// TimeUntilNextRun は cron 式 spec の次回実行までの期間を返します。
// 取り込みの直後にキャッシュが切れるよう、TTL の計算に使います。
func TimeUntilNextRun(spec string, loc *time.Location, now time.Time) (time.Duration, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	local := now.In(loc)
	return sched.Next(local).Sub(local), nil
}
