package app

import (
	"github.com/covault/covault"
	"github.com/covault/covault/errors"
)

// ResultsFromKeys collects the key column of the models
func ResultsFromKeys(models []covault.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues collects the value column of the models
func ResultsFromValues(models []covault.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults zips a key set and a value set back into models. Query
// responses carry the two columns separately, clients rejoin them
// here.
func JoinResults(keys, values *ResultSet) ([]covault.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrapf(errors.ErrInput, "mismatched result set size: %d vs %d", len(kref), len(vref))
	}
	mods := make([]covault.Model, len(kref))
	for i := range mods {
		mods[i] = covault.Model{Key: kref[i], Value: vref[i]}
	}
	return mods, nil
}

// UnmarshalOneResult parses a result set and loads the first entry
// into o. An empty set leaves o untouched.
func UnmarshalOneResult(bz []byte, o covault.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return errors.Wrap(err, "unmarshal result set")
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}
