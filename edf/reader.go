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
	"strconv"
	"strings"
	"time"
)

// Reader reads EDF/EDF+ files.
type Reader struct {
	r   io.ReadSeeker
	hdr *Header
}

// Open opens an EDF/EDF+ file for reading.
func Open(r io.ReadSeeker) (*Reader, error) {
	reader := bufio.NewReader(r)

	b := make([]byte, 256)
	if _, err := io.ReadFull(reader, b); err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	// Parse fields based on EDF/EDF+ specifications
	hdr := &Header{}
	hdr.Version = Version(strings.TrimSpace(string(b[0:8])))
	hdr.PatientID = strings.TrimSpace(string(b[8:88]))
	hdr.RecordingID = strings.TrimSpace(string(b[88:168]))
	dateStr := strings.TrimSpace(string(b[168:176]))
	timeStr := strings.TrimSpace(string(b[176:184]))

	startDate, err := time.Parse("02.01.06", dateStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing start date: %w", err)
	}
	startTime, err := time.Parse("15.04.05", timeStr)
	if err != nil {
		return nil, fmt.Errorf("error parsing start time: %w", err)
	}
	hdr.StartTime = time.Date(startDate.Year(), startDate.Month(), startDate.Day(),
		startTime.Hour(), startTime.Minute(), startTime.Second(), 0, time.UTC)

	hdr.HeaderBytes, err = strconv.Atoi(strings.TrimSpace(string(b[184:192])))
	if err != nil {
		return nil, fmt.Errorf("error parsing header bytes: %w", err)
	}

	hdr.Reserved = strings.TrimSpace(string(b[192:236]))

	hdr.DataRecords, err = strconv.Atoi(strings.TrimSpace(string(b[236:244])))
	if err != nil {
		return nil, fmt.Errorf("error parsing number of data records: %w", err)
	}

	hdr.DataRecordDuration, err = time.ParseDuration(fmt.Sprintf("%ss", strings.TrimSpace(string(b[244:252]))))
	if err != nil {
		return nil, fmt.Errorf("error parsing data record duration: %w", err)
	}

	hdr.SignalCount, err = strconv.Atoi(strings.TrimSpace(string(b[252:256])))
	if err != nil {
		return nil, fmt.Errorf("error parsing signal count: %w", err)
	}
	if hdr.SignalCount < 0 {
		return nil, fmt.Errorf("invalid signal count: %d", hdr.SignalCount)
	}

	// Signal headers are stored field by field, each field repeated for every signal.
	hdr.Signals = make([]Signal, hdr.SignalCount)

	fields := []struct {
		width int
		set   func(s *Signal, b []byte)
	}{
		{16, func(s *Signal, b []byte) { s.Label = strings.TrimSpace(string(b)) }},
		{80, func(s *Signal, b []byte) { s.TransducerType = strings.TrimSpace(string(b)) }},
		{8, func(s *Signal, b []byte) { s.PhysicalDimension = strings.TrimSpace(string(b)) }},
		{8, func(s *Signal, b []byte) { s.PhysicalMin = parseFloat(b) }},
		{8, func(s *Signal, b []byte) { s.PhysicalMax = parseFloat(b) }},
		{8, func(s *Signal, b []byte) { s.DigitalMin = parseInt(b) }},
		{8, func(s *Signal, b []byte) { s.DigitalMax = parseInt(b) }},
		{80, func(s *Signal, b []byte) { s.Prefiltering = strings.TrimSpace(string(b)) }},
		{8, func(s *Signal, b []byte) { s.SamplesPerRecord = parseInt(b) }},
		{32, func(s *Signal, b []byte) { s.Reserved = strings.TrimSpace(string(b)) }},
	}

	for _, field := range fields {
		b := make([]byte, field.width)
		for i := range hdr.Signals {
			if _, err := io.ReadFull(reader, b); err != nil {
				return nil, fmt.Errorf("error reading signal headers: %w", err)
			}
			field.set(&hdr.Signals[i], b)
		}
	}

	return &Reader{
		r:   r,
		hdr: hdr,
	}, nil
}

// Header returns a copy of the parsed file header.
func (er *Reader) Header() Header {
	hdr := *er.hdr
	hdr.Signals = append([]Signal(nil), er.hdr.Signals...)
	return hdr
}

// Annotations decodes the annotations of every EDF+ annotation signal in the file, in record
// order. Plain EDF files have no annotation signals and yield no annotations.
func (er *Reader) Annotations() ([]Annotation, error) {
	recordSize, offsets := er.layout()

	var annotations []Annotation
	for i, sig := range er.hdr.Signals {
		if !sig.IsAnnotations() {
			continue
		}

		buf := make([]byte, sig.SamplesPerRecord*2)
		for record := 0; record < er.hdr.DataRecords; record++ {
			pos := int64(er.hdr.HeaderBytes) + int64(record)*int64(recordSize) + int64(offsets[i])
			if err := readAt(er.r, pos, buf); err != nil {
				return nil, fmt.Errorf("error reading annotations of record %d: %w", record, err)
			}

			tals, err := ParseTALs(buf)
			if err != nil {
				return nil, fmt.Errorf("error parsing annotations of record %d: %w", record, err)
			}
			annotations = append(annotations, tals...)
		}
	}

	return annotations, nil
}

// layout returns the size in bytes of one data record and the byte offset of each signal
// within a record.
func (er *Reader) layout() (int, []int) {
	offsets := make([]int, len(er.hdr.Signals))
	recordSize := 0
	for i, sig := range er.hdr.Signals {
		offsets[i] = recordSize
		recordSize += sig.SamplesPerRecord * 2
	}
	return recordSize, offsets
}

// SignalReader reads continuous signal data from an EDF/EDF+ file.
type SignalReader struct {
	r             io.ReadSeeker
	hdr           *Header
	signal        Signal
	currentRecord int    // Current record being processed
	currentSample int    // Current sample in the record
	recordSize    int    // Total size of one data record
	signalOffset  int    // Byte offset of the signal in a record
	block         []byte // Raw samples of the current record
	loaded        bool   // Whether block holds the current record
}

// Signal creates a new SignalReader for a specified signal index.
func (er *Reader) Signal(signalIndex int) (*SignalReader, error) {
	if signalIndex < 0 || signalIndex >= len(er.hdr.Signals) {
		return nil, fmt.Errorf("signal index out of range")
	}

	signal := er.hdr.Signals[signalIndex]
	if signal.IsAnnotations() {
		return nil, fmt.Errorf("signal %d is an annotation signal", signalIndex)
	}

	recordSize, offsets := er.layout()

	return &SignalReader{
		r:            er.r,
		hdr:          er.hdr,
		signal:       signal,
		recordSize:   recordSize,
		signalOffset: offsets[signalIndex],
		block:        make([]byte, signal.SamplesPerRecord*2),
	}, nil
}

// Read fills the provided float64 slice with the physical values from the signal.
func (sr *SignalReader) Read(data []float64) (int, error) {
	if sr.signal.SamplesPerRecord <= 0 {
		return 0, io.EOF
	}

	n := 0
	for n < len(data) {
		if sr.currentRecord >= sr.hdr.DataRecords {
			return n, io.EOF // End of data records
		}

		if !sr.loaded {
			pos := int64(sr.hdr.HeaderBytes) + int64(sr.currentRecord)*int64(sr.recordSize) + int64(sr.signalOffset)
			if err := readAt(sr.r, pos, sr.block); err != nil {
				return n, fmt.Errorf("error reading sample data: %w", err)
			}
			sr.loaded = true
		}

		digitalValue := int16(binary.LittleEndian.Uint16(sr.block[sr.currentSample*2:]))
		data[n] = convertDigitalToPhysical(digitalValue, sr.signal.DigitalMin, sr.signal.DigitalMax, sr.signal.PhysicalMin, sr.signal.PhysicalMax)
		n++

		// Move to the next sample
		sr.currentSample++
		if sr.currentSample >= sr.signal.SamplesPerRecord {
			sr.currentSample = 0
			sr.currentRecord++
			sr.loaded = false
		}
	}

	return n, nil
}

// ReadAll reads every remaining sample of the signal.
func (sr *SignalReader) ReadAll() ([]float64, error) {
	remaining := (sr.hdr.DataRecords-sr.currentRecord)*sr.signal.SamplesPerRecord - sr.currentSample
	if remaining <= 0 {
		return nil, nil
	}

	data := make([]float64, remaining)
	n, err := sr.Read(data)
	if err != nil && err != io.EOF {
		return nil, err
	}

	return data[:n], nil
}

func readAt(r io.ReadSeeker, pos int64, buf []byte) error {
	if _, err := r.Seek(pos, io.SeekStart); err != nil {
		return fmt.Errorf("error seeking to position: %w", err)
	}
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	return nil
}

// convertDigitalToPhysical converts a digital value from the data record to a physical value using the calibration factors.
func convertDigitalToPhysical(digital int16, dmin, dmax int, pmin, pmax float64) float64 {
	if dmax == dmin {
		return 0 // Avoid division by zero
	}
	return pmin + (float64(digital)-float64(dmin))*(pmax-pmin)/float64(dmax-dmin)
}

func parseFloat(b []byte) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return 0.0
	}
	return f
}

func parseInt(b []byte) int {
	i, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0
	}
	return i
}
