package qr

import (
	"testing"

	"epunch/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cases := []Value{
		UserValue("5f0c1c9e-2c7c-4a57-9f6a-1f2d3c4b5a69"),
		RedemptionValue("0b9d8c7e-6f5a-4b3c-2d1e-0f9e8d7c6b5a"),
	}
	for _, v := range cases {
		raw, err := Encode(v)
		require.NoError(t, err)

		decoded, err := Decode(raw)
		require.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestDecodeWireShape(t *testing.T) {
	v, err := Decode(`{"type":"user_id","user_id":"abc"}`)
	require.NoError(t, err)
	assert.Equal(t, TypeUserID, v.Type)
	assert.Equal(t, "abc", v.UserID)

	v, err = Decode(`{"type":"redemption_punch_card_id","punch_card_id":"def"}`)
	require.NoError(t, err)
	assert.Equal(t, TypeRedemptionPunchCard, v.Type)
	assert.Equal(t, "def", v.PunchCardID)
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"unknown type":    `{"type":"gift_card","user_id":"abc"}`,
		"missing type":    `{"user_id":"abc"}`,
		"empty user id":   `{"type":"user_id","user_id":""}`,
		"empty card id":   `{"type":"redemption_punch_card_id"}`,
		"mixed variant":   `{"type":"user_id","user_id":"a","punch_card_id":"b"}`,
		"swapped variant": `{"type":"redemption_punch_card_id","user_id":"a"}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(raw)
			assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)
		})
	}
}

func TestEncodeRejectsInvalidValues(t *testing.T) {
	_, err := Encode(Value{Type: "bogus"})
	assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)

	_, err = Encode(Value{Type: TypeUserID})
	assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)

	_, err = Encode(Value{Type: TypeRedemptionPunchCard})
	assert.ErrorIs(t, err, apperr.ErrInvalidQRPayload)
}
