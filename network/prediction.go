package network

import (
	"math"

	"github.com/automoto/doomerang-netclient/shared/messages"
)

const predictionBufferSize = 64

// IntentionRecord stores an intention alongside the predicted position after
// applying it.
type IntentionRecord struct {
	Intention  messages.PlayerIntention
	PredictedX float64
	PredictedY float64
}

// PredictionBuffer is a ring buffer that stores recent intentions and their
// predicted outcomes for server reconciliation.
type PredictionBuffer struct {
	history [predictionBufferSize]IntentionRecord
	nextSeq uint32
}

// Store saves an intention and the resulting predicted position.
func (pb *PredictionBuffer) Store(intent messages.PlayerIntention, predX, predY float64) {
	idx := intent.Sequence % predictionBufferSize
	pb.history[idx] = IntentionRecord{
		Intention:  intent,
		PredictedX: predX,
		PredictedY: predY,
	}
	if intent.Sequence+1 > pb.nextSeq {
		pb.nextSeq = intent.Sequence + 1
	}
}

// Get retrieves a stored record by sequence number. Returns false if not found
// or if the slot has been overwritten.
func (pb *PredictionBuffer) Get(seq uint32) (IntentionRecord, bool) {
	idx := seq % predictionBufferSize
	record := pb.history[idx]
	if record.Intention.Sequence != seq || seq >= pb.nextSeq {
		return IntentionRecord{}, false
	}
	return record, true
}

// NextSeq returns the next expected sequence number.
func (pb *PredictionBuffer) NextSeq() uint32 {
	return pb.nextSeq
}

// GetUnacknowledged returns all stored intentions with sequence numbers
// greater than lastAcked (the ones the server hasn't confirmed yet).
func (pb *PredictionBuffer) GetUnacknowledged(lastAcked uint32) []IntentionRecord {
	var results []IntentionRecord
	for seq := lastAcked + 1; seq < pb.nextSeq; seq++ {
		if record, ok := pb.Get(seq); ok {
			results = append(results, record)
		}
	}
	return results
}

// PredictionError calculates the distance between predicted and actual server
// position for a given sequence.
func (pb *PredictionBuffer) PredictionError(seq uint32, serverX, serverY float64) float64 {
	record, ok := pb.Get(seq)
	if !ok {
		return 0
	}
	dx := record.PredictedX - serverX
	dy := record.PredictedY - serverY
	return math.Sqrt(dx*dx + dy*dy)
}

// Reset forgets all history but keeps the sequence counter, so sequence
// numbers stay unique for the connection.
func (pb *PredictionBuffer) Reset() {
	pb.history = [predictionBufferSize]IntentionRecord{}
}
