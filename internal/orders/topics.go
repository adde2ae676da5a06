package orders

const (
	TopicOrderCreated  = "order.created"
	TopicStatusUpdated = "order.status.updated"
	TopicEmails        = "order.emails"
)

// Partition key = order_id so all events for one order keep their order.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
