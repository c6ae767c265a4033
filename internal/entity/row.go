package entity

// Field is a single column of an analytics row.
type Field struct {
	Key   string
	Value any
}

// Row is an analytics result row. Fields keep the order the provider returned them in.
type Row []Field

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	for _, f := range r {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value stored under key, appending the field when absent.
func (r Row) Set(key string, value any) Row {
	for i := range r {
		if r[i].Key == key {
			r[i].Value = value
			return r
		}
	}
	return append(r, Field{Key: key, Value: value})
}
