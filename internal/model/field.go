package model

// FieldID identifies one deal field in the typed field registry. The filter
// and sort engines dispatch on the registry instead of ad-hoc string
// switches, so every field carries its accessor and comparison kind in one
// place.
type FieldID string

// Registered deal fields.
const (
	FieldName        FieldID = "name"
	FieldProject     FieldID = "project"
	FieldLead        FieldID = "lead"
	FieldCustomer    FieldID = "customer"
	FieldRegion      FieldID = "region"
	FieldOwner       FieldID = "owner"
	FieldValue       FieldID = "value"
	FieldCurrency    FieldID = "currency"
	FieldProbability FieldID = "probability"
	FieldCreatedAt   FieldID = "created_at"
	FieldCloseDate   FieldID = "close_date"
	FieldDuration    FieldID = "duration"
	FieldStage       FieldID = "stage"
	FieldPriority    FieldID = "priority"
	FieldHandoff     FieldID = "handoff"
	FieldStatus      FieldID = "status"
)

// FieldSpec binds a field identifier to its display label, comparison kind,
// and typed accessor.
type FieldSpec struct {
	Get   func(Deal) Value
	ID    FieldID
	Label string
	Kind  FieldKind
}

// fieldOrder is the canonical registry ordering, which doubles as the
// default column order.
var fieldOrder = []FieldID{
	FieldName,
	FieldProject,
	FieldLead,
	FieldCustomer,
	FieldRegion,
	FieldOwner,
	FieldValue,
	FieldCurrency,
	FieldProbability,
	FieldCreatedAt,
	FieldCloseDate,
	FieldDuration,
	FieldStage,
	FieldPriority,
	FieldHandoff,
	FieldStatus,
}

var fieldRegistry = map[FieldID]FieldSpec{
	FieldName: {
		ID: FieldName, Label: "Name", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Name) },
	},
	FieldProject: {
		ID: FieldProject, Label: "Project", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Project) },
	},
	FieldLead: {
		ID: FieldLead, Label: "Lead", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Lead) },
	},
	FieldCustomer: {
		ID: FieldCustomer, Label: "Customer", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Customer) },
	},
	FieldRegion: {
		ID: FieldRegion, Label: "Region", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Region) },
	},
	FieldOwner: {
		ID: FieldOwner, Label: "Owner", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Owner) },
	},
	FieldValue: {
		ID: FieldValue, Label: "Value", Kind: KindNumeric,
		Get: func(d Deal) Value { return Number(d.Value) },
	},
	FieldCurrency: {
		ID: FieldCurrency, Label: "Currency", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Currency) },
	},
	FieldProbability: {
		ID: FieldProbability, Label: "Prob %", Kind: KindNumeric,
		Get: func(d Deal) Value { return Number(float64(d.Probability)) },
	},
	FieldCreatedAt: {
		ID: FieldCreatedAt, Label: "Created", Kind: KindDate,
		Get: func(d Deal) Value { return Date(d.CreatedAt) },
	},
	FieldCloseDate: {
		ID: FieldCloseDate, Label: "Close", Kind: KindDate,
		Get: func(d Deal) Value { return Date(d.CloseDate) },
	},
	FieldDuration: {
		ID: FieldDuration, Label: "Days", Kind: KindNumeric,
		Get: func(d Deal) Value { return Number(d.DurationDays()) },
	},
	FieldStage: {
		ID: FieldStage, Label: "Stage", Kind: KindEnum,
		Get: func(d Deal) Value { return EnumMember(string(d.Stage)) },
	},
	FieldPriority: {
		ID: FieldPriority, Label: "Priority", Kind: KindEnum,
		Get: func(d Deal) Value { return EnumMember(string(d.Priority)) },
	},
	FieldHandoff: {
		ID: FieldHandoff, Label: "Handoff", Kind: KindEnum,
		Get: func(d Deal) Value { return EnumMember(string(d.Handoff)) },
	},
	FieldStatus: {
		ID: FieldStatus, Label: "Status", Kind: KindText,
		Get: func(d Deal) Value { return Text(d.Status) },
	},
}

// Fields returns every registered field spec in canonical order.
func Fields() []FieldSpec {
	specs := make([]FieldSpec, 0, len(fieldOrder))
	for _, id := range fieldOrder {
		specs = append(specs, fieldRegistry[id])
	}
	return specs
}

// FieldByID looks up a field spec by identifier.
func FieldByID(id FieldID) (FieldSpec, bool) {
	spec, ok := fieldRegistry[id]
	return spec, ok
}

// ValueOf reads the tagged value of one field from a deal. Unknown fields
// read as empty text, which the engines treat as non-matching.
func ValueOf(d Deal, id FieldID) Value {
	spec, ok := fieldRegistry[id]
	if !ok {
		return Text("")
	}
	return spec.Get(d)
}
