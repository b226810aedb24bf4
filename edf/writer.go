// SPDX-License-Identifier: MPL-2.0
/*
 * Copyright (C) 2024 Damian Peckett <damian@pecke.tt>.
 *
 * This Source Code Form is subject to the terms of the Mozilla Public
 * License, v. 2.0. If a copy of the MPL was not distributed with this
 * file, You can obtain one at http://mozilla.org/MPL/2.0/.
 */

package edf

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// maxRecordBytes is the data record size limit recommended by the EDF standard.
const maxRecordBytes = 61440

// Writer writes EDF files.
type Writer struct {
	w           io.WriteSeeker
	hdr         *Header
	dataRecords int // Number of data records written so far.
}

// AnnotationSignal returns the header of an EDF+ annotation signal able to hold
// samplesPerRecord*2 bytes of annotations in every data record.
func AnnotationSignal(samplesPerRecord int) Signal {
	return Signal{
		Label:            AnnotationsLabel,
		PhysicalMin:      -1,
		PhysicalMax:      1,
		DigitalMin:       -32768,
		DigitalMax:       32767,
		SamplesPerRecord: samplesPerRecord,
	}
}

// Create creates a new EDF writer that writes to the given writer. Headers containing an
// annotation signal are written as continuous EDF+ unless Reserved says otherwise.
func Create(w io.WriteSeeker, hdr Header) (*Writer, error) {
	hdr.Signals = append([]Signal(nil), hdr.Signals...)
	hdr.SignalCount = len(hdr.Signals)
	hdr.DataRecords = -1 // Unknown number of data records (at this time).

	if hdr.Reserved == "" {
		for _, sig := range hdr.Signals {
			if sig.IsAnnotations() {
				hdr.Reserved = ReservedEDFPlusContinuous
				break
			}
		}
	}

	ew := &Writer{w: w, hdr: &hdr}

	// Write the initial header
	if err := ew.writeHeader(); err != nil {
		return nil, fmt.Errorf("error writing header: %w", err)
	}

	return ew, nil
}

// Close finalizes the EDF file by updating the header with the total number of data records.
func (ew *Writer) Close() error {
	ew.hdr.DataRecords = ew.dataRecords
	if err := ew.writeHeader(); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}

	return nil
}

// WriteRecord writes a single data record to the EDF file. samples holds one slice per
// ordinary signal, in header order, skipping annotation signals. The first annotation signal
// of the record receives the record timekeeping entry followed by the given annotations.
func (ew *Writer) WriteRecord(samples [][]float64, annotations ...Annotation) error {
	dataSignals := 0
	annotationSignals := 0
	recordBytes := 0
	for _, sig := range ew.hdr.Signals {
		if sig.IsAnnotations() {
			annotationSignals++
		} else {
			dataSignals++
		}
		recordBytes += sig.SamplesPerRecord * 2
	}

	if len(samples) != dataSignals {
		return fmt.Errorf("expected %d signals, got %d", dataSignals, len(samples))
	}

	if len(annotations) > 0 && annotationSignals == 0 {
		return fmt.Errorf("cannot write annotations without an annotation signal")
	}

	// As recommended by the EDF standard.
	if recordBytes > maxRecordBytes {
		return fmt.Errorf("data record too large: %d bytes, max is %d bytes", recordBytes, maxRecordBytes)
	}

	writer := bufio.NewWriter(ew.w)

	next := 0
	firstAnnotationSignal := true
	for _, sig := range ew.hdr.Signals {
		if sig.IsAnnotations() {
			var tals []byte
			if firstAnnotationSignal {
				onset := float64(ew.dataRecords) * ew.hdr.DataRecordDuration.Seconds()
				tals = appendTimekeepingTAL(tals, onset)
				for _, a := range annotations {
					tals = AppendTAL(tals, a)
				}
				firstAnnotationSignal = false
			}

			size := sig.SamplesPerRecord * 2
			if len(tals) > size {
				return fmt.Errorf("annotations too large: %d bytes, signal holds %d bytes", len(tals), size)
			}
			tals = append(tals, make([]byte, size-len(tals))...)
			if _, err := writer.Write(tals); err != nil {
				return err
			}
			continue
		}

		values := samples[next]
		next++
		if len(values) != sig.SamplesPerRecord {
			return fmt.Errorf("signal %q: expected %d samples, got %d", sig.Label, sig.SamplesPerRecord, len(values))
		}

		for _, sample := range values {
			digitalValue := convertPhysicalToDigital(sample, sig.PhysicalMin, sig.PhysicalMax, sig.DigitalMin, sig.DigitalMax)
			if err := binary.Write(writer, binary.LittleEndian, digitalValue); err != nil {
				return err
			}
		}
	}

	// Ensure all data is flushed to the underlying writer
	if err := writer.Flush(); err != nil {
		return err
	}

	ew.dataRecords++
	return nil
}

// writeHeader writes an EDF header to the given writer.
func (ew *Writer) writeHeader() error {
	// Rewind to the beginning of the file.
	if _, err := ew.w.Seek(0, io.SeekStart); err != nil {
		return err
	}

	hdr := ew.hdr
	hdr.HeaderBytes = 256 + (hdr.SignalCount * 256)

	writer := bufio.NewWriter(ew.w)

	fixed := []string{
		fmt.Sprintf("%-8s", hdr.Version),
		fmt.Sprintf("%-80.80s", hdr.PatientID),
		fmt.Sprintf("%-80.80s", hdr.RecordingID),
		fmt.Sprintf("%-8s", hdr.StartTime.Format("02.01.06")),
		fmt.Sprintf("%-8s", hdr.StartTime.Format("15.04.05")),
		fmt.Sprintf("%-8d", hdr.HeaderBytes),
		fmt.Sprintf("%-44.44s", hdr.Reserved),
		fmt.Sprintf("%-8d", hdr.DataRecords),
		formatRecordDuration(hdr.DataRecordDuration.Seconds()),
		fmt.Sprintf("%-4d", hdr.SignalCount),
	}
	for _, s := range fixed {
		if _, err := writer.WriteString(s); err != nil {
			return err
		}
	}

	// Signal headers are stored field by field, each field repeated for every signal.
	fields := []func(sig Signal) string{
		func(sig Signal) string { return fmt.Sprintf("%-16.16s", sig.Label) },
		func(sig Signal) string { return fmt.Sprintf("%-80.80s", sig.TransducerType) },
		func(sig Signal) string { return fmt.Sprintf("%-8.8s", sig.PhysicalDimension) },
		func(sig Signal) string { return formatPhysicalValue(sig.PhysicalMin) },
		func(sig Signal) string { return formatPhysicalValue(sig.PhysicalMax) },
		func(sig Signal) string { return fmt.Sprintf("%-8d", sig.DigitalMin) },
		func(sig Signal) string { return fmt.Sprintf("%-8d", sig.DigitalMax) },
		func(sig Signal) string { return fmt.Sprintf("%-80.80s", sig.Prefiltering) },
		func(sig Signal) string { return fmt.Sprintf("%-8d", sig.SamplesPerRecord) },
		func(sig Signal) string { return fmt.Sprintf("%-32.32s", sig.Reserved) },
	}
	for _, field := range fields {
		for _, sig := range hdr.Signals {
			if _, err := writer.WriteString(field(sig)); err != nil {
				return err
			}
		}
	}

	// Ensure all data is flushed to the underlying writer
	return writer.Flush()
}

// convertPhysicalToDigital converts a physical value to a digital value using the calibration factors.
func convertPhysicalToDigital(physical float64, pmin, pmax float64, dmin, dmax int) int16 {
	if pmax == pmin {
		return 0 // Avoid division by zero
	}
	digital := ((physical - pmin) * (float64(dmax - dmin)) / (pmax - pmin)) + float64(dmin)
	digital = math.Max(float64(dmin), math.Min(float64(dmax), math.Round(digital)))
	return int16(digital)
}

func formatPhysicalValue(val float64) string {
	// Try with 2 decimal places
	s := fmt.Sprintf("%.2f", val)
	if len(s) > 8 {
		// Fall back to no decimal
		s = fmt.Sprintf("%.0f", val)
	}
	return fmt.Sprintf("%-8s", s)
}

func formatRecordDuration(seconds float64) string {
	s := strconv.FormatFloat(seconds, 'f', -1, 64)
	if len(s) > 8 {
		s = s[:8]
	}
	return fmt.Sprintf("%-8s", s)
}
