package models

// MetricTick is one raw market observation flowing through the ingest
// pipeline (stream -> pipeline -> Kafka/ClickHouse).
type MetricTick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// SentimentRecord is one keyword-tagged text observation (news headline,
// policy statement, social post) scored upstream by the collectors.
type SentimentRecord struct {
	Timestamp  int64
	Source     string
	Tags       []string
	Tone       float64 // [-1, 1], negative = bearish
	Escalation bool    // explicit escalation language present
}

// WeatherObservation is one daily regional crop-condition aggregate.
type WeatherObservation struct {
	Day    int64 // unix seconds at midnight UTC
	Region string
	Score  float64 // condition index [0, 100]
	Weight float64 // production share of the region
}

// PolicyEvent is one biofuel/trade policy change with a quantified delta
// (e.g. mandate volume change in percentage points).
type PolicyEvent struct {
	Timestamp int64
	Program   string
	Delta     float64
}
