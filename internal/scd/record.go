package scd

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value string
}

// Record is an ordered mapping from field name to literal string value.
// Field order is insertion order; setting an existing key replaces its value
// in place.
type Record struct {
	fields []Field
	index  map[string]int
}

// NewRecord builds a record from fields in order. Repeated keys keep the
// position of the first occurrence and the value of the last.
func NewRecord(fields ...Field) *Record {
	r := &Record{}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Get returns the value for key and whether it is present.
func (r *Record) Get(key string) (string, bool) {
	if r == nil || r.index == nil {
		return "", false
	}
	i, ok := r.index[key]
	if !ok {
		return "", false
	}
	return r.fields[i].Value, true
}

// Value returns the value for key, or "" when absent.
func (r *Record) Value(key string) string {
	v, _ := r.Get(key)
	return v
}

// Set assigns value to key, appending the key when it is new.
func (r *Record) Set(key, value string) {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if i, ok := r.index[key]; ok {
		r.fields[i].Value = value
		return
	}
	r.index[key] = len(r.fields)
	r.fields = append(r.fields, Field{Key: key, Value: value})
}

// Len reports the number of distinct fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.fields)
}

// Fields returns a copy of the fields in insertion order.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	out := make([]Field, len(r.fields))
	copy(out, r.fields)
	return out
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	keys := make([]string, len(r.fields))
	for i, f := range r.fields {
		keys[i] = f.Key
	}
	return keys
}

// appendTo extends the value of key with a
// continuation line.
func (r *Record) appendTo(key, line string) {
	i := r.index[key]
	r.fields[i].Value += "\n" + line
}
