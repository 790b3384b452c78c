package sheets

import "trainpulse/pkg/contracts/domain"

// dropHeaderRows removes the first n rows
func dropHeaderRows(values [][]interface{}, n int) [][]interface{} {
	if len(values) <= n {
		return nil
	}
	return values[n:]
}

// MapRows maps raw rows positionally onto the movement schema. Columns
// past a row's end become the empty string; columns past the schema are
// ignored.
func MapRows(rows [][]interface{}) []domain.TrainMovement {
	out := make([]domain.TrainMovement, len(rows))
	for i, row := range rows {
		out[i] = domain.MovementFromRow(row)
	}
	return out
}
