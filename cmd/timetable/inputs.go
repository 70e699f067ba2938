package main

import (
	"bytes"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/sma-timetable/internal/ingest"
	"github.com/noah-isme/sma-timetable/internal/timetable"
)

// locksFile is the YAML layout of --locks.
type locksFile struct {
	Locks []ingest.LockSpec `yaml:"locks"`
}

func readDecoded(path string) ([]byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ingest.Decode(raw)
}

func loadSubjects(path string, l *zap.Logger) ([]timetable.Subject, error) {
	body, err := readDecoded(path)
	if err != nil {
		return nil, fmt.Errorf("read subjects: %w", err)
	}
	sheet, err := ingest.ParseSubjects(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse subjects: %w", err)
	}
	if sheet.Skipped != nil {
		for _, rowErr := range sheet.Skipped.Errors {
			l.Warn("subject row skipped", zap.Error(rowErr))
		}
	}
	if len(sheet.Subjects) == 0 {
		return nil, fmt.Errorf("%s has no usable subject rows", path)
	}
	return sheet.Subjects, nil
}

func loadLocks(path string) ([]timetable.Lock, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read locks: %w", err)
	}
	var file locksFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse locks: %w", err)
	}
	var locks []timetable.Lock
	for _, spec := range file.Locks {
		expanded, err := spec.Expand()
		if err != nil {
			return nil, err
		}
		locks = append(locks, expanded...)
	}
	return locks, nil
}

func loadBuildings(path string) (timetable.BuildingMap, error) {
	if path == "" {
		return timetable.BuildingMap{}, nil
	}
	body, err := readDecoded(path)
	if err != nil {
		return nil, fmt.Errorf("read buildings: %w", err)
	}
	return ingest.ParseBuildingMap(bytes.NewReader(body))
}
