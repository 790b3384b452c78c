package domain

// Column names of the train movement sheet, in sheet order.
// The second column is an unnamed spacer.
const (
	ColTimestamp = "timestamp"
	ColSpacer    = ""
	ColBDNo      = "BD No"
	ColSlNo      = "Sl No"
	ColTrainName = "Train Name"
	ColLoco      = "LOCO"
	ColStation   = "Station"
	ColStatus    = "Status"
	ColTime      = "Time"
	ColRemarks   = "Remarks"
	ColFOISID    = "FOISID"
	ColUID       = "uid"
)

// MovementHeaders is the fixed header list of the movement sheet
var MovementHeaders = []string{
	ColTimestamp, ColSpacer, ColBDNo, ColSlNo, ColTrainName, ColLoco,
	ColStation, ColStatus, ColTime, ColRemarks, ColFOISID, ColUID,
}

// MovementColumnCount is the number of columns every fetched row is mapped onto
const MovementColumnCount = 12

// Movement status codes reported in the Status column
const (
	StatusTerminated = "TER"
	StatusHandedOver = "HO"
)

// TrainMovement is one reported train movement with the sheet's fixed schema
type TrainMovement struct {
	Timestamp Cell `json:"timestamp"`
	Spacer    Cell `json:"-"`
	BDNo      Cell `json:"bd_no"`
	SlNo      Cell `json:"sl_no"`
	TrainName Cell `json:"train_name"`
	Loco      Cell `json:"loco"`
	Station   Cell `json:"station"`
	Status    Cell `json:"status"`
	Time      Cell `json:"time"`
	Remarks   Cell `json:"remarks"`
	FOISID    Cell `json:"foisid"`
	UID       Cell `json:"uid"`
}

// MovementFromRow maps a raw sheet row positionally onto the schema.
// Columns past the end of the row become the empty string.
func MovementFromRow(row []any) TrainMovement {
	at := func(i int) Cell {
		if i < len(row) {
			c := CellOf(row[i])
			if c.IsEmpty() {
				return String("")
			}
			return c
		}
		return String("")
	}

	return TrainMovement{
		Timestamp: at(0),
		Spacer:    at(1),
		BDNo:      at(2),
		SlNo:      at(3),
		TrainName: at(4),
		Loco:      at(5),
		Station:   at(6),
		Status:    at(7),
		Time:      at(8),
		Remarks:   at(9),
		FOISID:    at(10),
		UID:       at(11),
	}
}

// MovementFromRecord reads a movement back out of a record
func MovementFromRecord(r Record) TrainMovement {
	return TrainMovement{
		Timestamp: r.Get(ColTimestamp),
		Spacer:    r.Get(ColSpacer),
		BDNo:      r.Get(ColBDNo),
		SlNo:      r.Get(ColSlNo),
		TrainName: r.Get(ColTrainName),
		Loco:      r.Get(ColLoco),
		Station:   r.Get(ColStation),
		Status:    r.Get(ColStatus),
		Time:      r.Get(ColTime),
		Remarks:   r.Get(ColRemarks),
		FOISID:    r.Get(ColFOISID),
		UID:       r.Get(ColUID),
	}
}

// Record converts the movement to a record keyed by MovementHeaders
func (m TrainMovement) Record() Record {
	return NewRecord(
		Field{ColTimestamp, m.Timestamp},
		Field{ColSpacer, m.Spacer},
		Field{ColBDNo, m.BDNo},
		Field{ColSlNo, m.SlNo},
		Field{ColTrainName, m.TrainName},
		Field{ColLoco, m.Loco},
		Field{ColStation, m.Station},
		Field{ColStatus, m.Status},
		Field{ColTime, m.Time},
		Field{ColRemarks, m.Remarks},
		Field{ColFOISID, m.FOISID},
		Field{ColUID, m.UID},
	)
}

// MovementsToRecords converts a slice of movements
func MovementsToRecords(ms []TrainMovement) []Record {
	out := make([]Record, len(ms))
	for i, m := range ms {
		out[i] = m.Record()
	}
	return out
}
