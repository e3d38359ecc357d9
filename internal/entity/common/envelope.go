package common

// Envelope wraps every API payload. Status reports whether Body was produced.
type Envelope struct {
	Status bool        `json:"status"`
	Body   interface{} `json:"body"`
}

// Ok wraps a produced body.
func Ok(body interface{}) Envelope {
	return Envelope{Status: true, Body: body}
}

// Empty is the envelope without a body.
func Empty() Envelope {
	return Envelope{Status: false, Body: nil}
}
