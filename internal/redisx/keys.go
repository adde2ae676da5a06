package redisx

import "time"

const (
	// Order snapshot cache: order:{order_id} -> serialized order
	KeyOrder = "order:%s"

	// Dedup for consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLOrderCache = 5 * time.Minute
	TTLDedup      = 48 * time.Hour
)
