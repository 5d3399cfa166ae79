package subject

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSamples(t *testing.T) {
	in := "time,annotation,x\n" +
		"t0,\"a;MET 1.5\",9\n" +
		"t1,,9\n" +
		",\"b;MET 7.0\",9\n"

	samples, err := ReadSamples(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, samples, 3)

	assert.Equal(t, Sample{Time: "t0", Annotation: "a;MET 1.5"}, samples[0])
	assert.Equal(t, Sample{Time: "t1", Annotation: ""}, samples[1])
	assert.Equal(t, Sample{Time: "", Annotation: "b;MET 7.0"}, samples[2])
	assert.False(t, samples[2].Timed())
}

func TestReadSamples_ColumnOrderAndBOM(t *testing.T) {
	in := "\ufeffannotation,time\n;MET 2.0,t0\n"

	samples, err := ReadSamples(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "t0", samples[0].Time)
	assert.Equal(t, ";MET 2.0", samples[0].Annotation)
}

func TestReadSamples_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty file", "", "missing header"},
		{"missing annotation", "time,x\nt0,1\n", "annotation"},
		{"missing both", "a,b\n1,2\n", "time, annotation"},
		{"ragged row", "time,annotation\nt0\n", "row 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSamples(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReadSamples_HeaderOnly(t *testing.T) {
	_, err := ReadSamples(strings.NewReader("time,annotation\n"))
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, ErrNoSamples))
}
