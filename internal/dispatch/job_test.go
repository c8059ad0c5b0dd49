package dispatch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobSpec_MarshalJSONIsFlat(t *testing.T) {
	spec := JobSpec{
		RunNo:      "7",
		Randomized: true,
		Datasource: "alpha",
		Options: map[string]interface{}{
			"iterations": 250,
			"tolerance":  0.05,
			"modes":      []interface{}{"fast", "full"},
		},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"run_no": "7",
		"randomized": true,
		"datasource": "alpha",
		"iterations": 250,
		"tolerance": 0.05,
		"modes": ["fast", "full"]
	}`, string(data))
}

func TestJobSpec_MarshalJSONOmitsEmptyDatasource(t *testing.T) {
	data, err := json.Marshal(JobSpec{RunNo: "1", Randomized: true})
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotContains(t, decoded, "datasource")
	assert.Equal(t, "1", decoded["run_no"])
	assert.Equal(t, true, decoded["randomized"])
}

func TestJobSpec_OptionsWinCollisions(t *testing.T) {
	spec := JobSpec{
		RunNo:      "1",
		Randomized: true,
		Options:    map[string]interface{}{"randomized": false},
	}
	data, err := json.Marshal(spec)
	require.NoError(t, err)

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["randomized"])
}
