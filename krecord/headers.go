package krecord

// Headers carries record metadata such as trace IDs.
//
// Headers is not safe for concurrent use. A record is owned by exactly one
// chain at a time and chains run on a single goroutine.
type Headers struct {
	headers []Header
}

// Header is a single key/value pair.
type Header struct {
	Key   string
	Value []byte
}

func NewHeaders() *Headers {
	return &Headers{
		headers: make([]Header, 0),
	}
}

// Get returns the first value stored for key.
func (h *Headers) Get(key string) ([]byte, bool) {
	if h == nil {
		return nil, false
	}
	for _, header := range h.headers {
		if header.Key == key {
			return header.Value, true
		}
	}
	return nil, false
}

func (h *Headers) GetString(key string) (string, bool) {
	val, ok := h.Get(key)
	if !ok {
		return "", false
	}
	return string(val), true
}

// Set replaces all values stored for key.
func (h *Headers) Set(key string, value []byte) {
	h.Remove(key)
	h.headers = append(h.headers, Header{Key: key, Value: value})
}

func (h *Headers) SetString(key, value string) {
	h.Set(key, []byte(value))
}

// Add appends a value without touching existing values for key.
func (h *Headers) Add(key string, value []byte) {
	h.headers = append(h.headers, Header{Key: key, Value: value})
}

func (h *Headers) AddString(key, value string) {
	h.Add(key, []byte(value))
}

func (h *Headers) Remove(key string) {
	filtered := h.headers[:0]
	for _, header := range h.headers {
		if header.Key != key {
			filtered = append(filtered, header)
		}
	}
	h.headers = filtered
}

// All returns a copy of all headers in insertion order.
func (h *Headers) All() []Header {
	if h == nil {
		return nil
	}
	result := make([]Header, len(h.headers))
	copy(result, h.headers)
	return result
}

// Clone returns headers that can be changed without affecting h. Header
// values are shared.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return nil
	}
	c := &Headers{headers: make([]Header, len(h.headers))}
	copy(c.headers, h.headers)
	return c
}

func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.headers)
}

// BinaryLength is the number of key and value bytes held by the headers.
func (h *Headers) BinaryLength() int {
	if h == nil {
		return 0
	}
	n := 0
	for _, header := range h.headers {
		n += len(header.Key) + len(header.Value)
	}
	return n
}
