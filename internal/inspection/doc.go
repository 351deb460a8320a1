// Package inspection turns dictated inspection transcripts into the two
// spreadsheets used on site: a room list and a per-element description.
//
// The work happens in three stages. The Normalizer asks a language model to
// clean the transcript into one paragraph per room. The Structurer asks it to
// convert that narrative into a Record. The Tabulator flattens the Record
// into rows. Pipeline runs the three in order.
package inspection
