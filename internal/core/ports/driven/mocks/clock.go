package mocks

import "time"

var timeNow = time.Now
