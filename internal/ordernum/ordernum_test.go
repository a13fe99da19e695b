package ordernum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name       string
		liveMax    int
		archiveMax int
		want       string
	}{
		{name: "first number", want: "C123000001"},
		{name: "live is higher", liveMax: 7, archiveMax: 3, want: "C123000008"},
		{name: "archive keeps deleted max", liveMax: 2, archiveMax: 41, want: "C123000042"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Next("C123", tc.liveMax, tc.archiveMax)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, Valid(got))
		})
	}
}

func TestNext_Exhausted(t *testing.T) {
	_, err := Next("V9", 999999, 0)
	assert.Error(t, err)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("C12000001"))
	assert.True(t, Valid("V4455000120_1"))
	assert.False(t, Valid("X12000001"))
	assert.False(t, Valid("C00001"))
	assert.False(t, Valid("C12000001_2"))
}

func TestCompanyCode(t *testing.T) {
	assert.Equal(t, "123456", CompanyCode("CHE-123.456"))
	assert.Equal(t, "", CompanyCode("no digits"))
}

func TestSequence(t *testing.T) {
	n, ok := Sequence("C12", "C12000034")
	assert.True(t, ok)
	assert.Equal(t, 34, n)

	n, ok = Sequence("C12", Archive("C12000035"))
	assert.True(t, ok)
	assert.Equal(t, 35, n)

	_, ok = Sequence("C12", "C123000034")
	assert.False(t, ok)
}
