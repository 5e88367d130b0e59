// SPDX-FileCopyrightText: 2026 Vibelab contributors
//
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// MetaTableName is the file stem of the recording metadata table.
const MetaTableName = "meta"

// WriteCSVDir renders a Bundle as one CSV file per calculation plus a
// meta.csv listing the analyzed recordings. The directory is created when
// missing.
func (b *Bundle) WriteCSVDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	for _, t := range b.Tables {
		records := make([][]string, 0, len(t.Records)+1)
		records = append(records, t.Columns)
		records = append(records, t.Records...)
		if err := writeCSV(filepath.Join(dir, t.ID+".csv"), records); err != nil {
			return fmt.Errorf("table %s: %w", t.ID, err)
		}
	}

	records := [][]string{{ColFilename, ColSerialNumber, ColStartTime}}
	for _, rec := range b.Recordings {
		records = append(records, []string{
			rec.Filename,
			fmt.Sprintf("%d", rec.SerialNumber),
			rec.StartTime.Format(time.RFC3339Nano),
		})
	}
	if err := writeCSV(filepath.Join(dir, MetaTableName+".csv"), records); err != nil {
		return fmt.Errorf("table %s: %w", MetaTableName, err)
	}

	return nil
}

func writeCSV(path string, records [][]string) error {
	df := dataframe.LoadRecords(records, dataframe.DetectTypes(false), dataframe.DefaultType(series.String))
	if df.Error() != nil {
		return df.Error()
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := df.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
