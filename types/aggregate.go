package types

// AggregatorKindForName maps an aggregate function name to its intrinsic
// aggregator Kind, matching the "one per supported aggregate" family in
// spec.md §3.
var AggregatorKindForName = map[string]Kind{
	"count": CountAggregate,
	"sum":   SumAggregate,
	"avg":   AvgAggregate,
	"min":   MinAggregate,
	"max":   MaxAggregate,
}

// AggResultType resolves the SQL value type AggResult produces for a given
// aggregator kind and the SQL type of the column it accumulates.
//
// spec.md §9 flags that the source always returns SqlInteger regardless of
// aggregator kind, marked with a TODO, and asks an implementer to decide
// rather than silently carry the bug forward. This resolves it: COUNT
// always yields SqlInteger (a count is never fractional), and every other
// aggregator yields the SQL type of the column it was built over.
func AggResultType(r *Registry, aggKind Kind, inputSqlType *Type) *Type {
	if aggKind == CountAggregate {
		return r.SqlIntegerType()
	}
	if inputSqlType != nil && inputSqlType.IsSqlValueType() {
		return inputSqlType
	}
	return r.SqlIntegerType()
}
