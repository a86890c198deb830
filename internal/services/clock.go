package services

import (
	"time"

	"github.com/sbilibin2017/dream-vault/internal/streak"
)

// timeNow is replaced in tests.
var timeNow = time.Now

func today() string {
	return timeNow().UTC().Format(streak.DateLayout)
}
