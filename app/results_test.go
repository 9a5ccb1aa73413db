package app

import (
	"testing"

	"github.com/covault/covault"
	"github.com/covault/covault/covtest/assert"
)

func TestResultSetRoundTrip(t *testing.T) {
	models := []covault.Model{
		{Key: []byte("a"), Value: []byte("1")},
		{Key: []byte("b"), Value: []byte("2")},
	}

	keys := ResultsFromKeys(models)
	values := ResultsFromValues(models)

	joined, err := JoinResults(keys, values)
	assert.Nil(t, err)
	assert.Equal(t, models, joined)
}

func TestJoinResultsSizeMismatch(t *testing.T) {
	keys := &ResultSet{Results: [][]byte{[]byte("a")}}
	values := &ResultSet{Results: [][]byte{[]byte("1"), []byte("2")}}

	if _, err := JoinResults(keys, values); err == nil {
		t.Fatal("expected size mismatch error")
	}
}

func TestUnmarshalOneResult(t *testing.T) {
	set := &ResultSet{Results: [][]byte{[]byte("payload"), []byte("extra")}}
	bz, err := set.Marshal()
	assert.Nil(t, err)

	var msg mockPersistent
	assert.Nil(t, UnmarshalOneResult(bz, &msg))
	assert.Equal(t, []byte("payload"), msg.data)

	// an empty result set leaves the target untouched
	empty, err := (&ResultSet{}).Marshal()
	assert.Nil(t, err)
	var unset mockPersistent
	assert.Nil(t, UnmarshalOneResult(empty, &unset))
	assert.Nil(t, unset.data)
}

type mockPersistent struct {
	data []byte
}

func (m *mockPersistent) Marshal() ([]byte, error) {
	return m.data, nil
}

func (m *mockPersistent) Unmarshal(b []byte) error {
	m.data = b
	return nil
}
