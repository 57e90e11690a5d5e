package lingonberry

// Message is implemented by generated binding types.
type Message interface {
	// Fingerprint returns the 64-bit structural fingerprint of the
	// message's schema struct.
	Fingerprint() int64

	// EncodeTo appends the message body to e, fields in declaration
	// order.
	EncodeTo(e *Encoder)

	// DecodeFrom reads the message body from d.
	DecodeFrom(d *Decoder) error
}

// EncodeMessage encodes m framed with its fingerprint prefix.
func EncodeMessage(m Message) []byte {
	e := GetEncoder()
	defer PutEncoder(e)
	e.WriteInt64(m.Fingerprint())
	m.EncodeTo(e)
	return e.BytesCopy()
}

// DecodeMessage decodes data into m, verifying the fingerprint prefix.
func DecodeMessage(data []byte, m Message) error {
	d := NewDecoder(data)
	hash, err := d.ReadInt64()
	if err != nil {
		return err
	}
	if hash != m.Fingerprint() {
		return ErrFingerprintMismatch
	}
	return m.DecodeFrom(d)
}
