package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, json.Number, bool, nil, *JSONObject or JSONArray.
type JSONValue interface{}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object and remembers the order in which its
// keys appeared in the source document.
type JSONObject struct {
	members []Member
	index   map[string]int
}

// NewJSONObject creates an empty ordered object.
func NewJSONObject() *JSONObject {
	return &JSONObject{index: make(map[string]int)}
}

// Set adds or replaces a member. A repeated key keeps its first position
// and takes the latest value.
func (o *JSONObject) Set(key string, value JSONValue) {
	if o.index == nil {
		o.index = make(map[string]int)
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Len returns the number of members.
func (o *JSONObject) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Members returns a copy of the members in document order.
func (o *JSONObject) Members() []Member {
	if o == nil {
		return nil
	}
	out := make([]Member, len(o.members))
	copy(out, o.members)
	return out
}

// FirstKey returns the first key in document order, if any.
func (o *JSONObject) FirstKey() (string, bool) {
	if o.Len() == 0 {
		return "", false
	}
	return o.members[0].Key, true
}

// IntermediateRepresentation is a structure to hold the parsed JSON data
// in a way that's easy for the analyzer to work with.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
