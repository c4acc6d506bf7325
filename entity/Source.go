package entity

type Source string

const (
	SourceTablet    Source = "iPad"
	SourceTalabat   Source = "Talabat"
	SourceDeliveroo Source = "Deliveroo"
	SourceCareem    Source = "Careem"
)

var Aggregators = []Source{SourceTalabat, SourceDeliveroo, SourceCareem}

func (s Source) Valid() bool {
	return s == SourceTablet || s.IsAggregator()
}

func (s Source) IsAggregator() bool {
	_, ok := aggregatorCodes[s]
	return ok
}

// Code is the 3-letter suffix printed after an aggregator's order number.
func (s Source) Code() string { return aggregatorCodes[s] }

var aggregatorCodes = map[Source]string{
	SourceTalabat:   "TLB",
	SourceDeliveroo: "DLV",
	SourceCareem:    "CRM",
}
