package service

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

type ExportService struct {
	Customers repository.CustomerRepositoryInterface
	Fields    repository.FieldRepositoryInterface
}

// Export streams every customer matching the filters as CSV. The column
// order is fixed: id, the core columns, created_at/updated_at, then one
// custom.<key> column per definition in key order. Quoting and escaping are
// the standard CSV rules.
func (s *ExportService) Export(p repository.ListParams, w io.Writer) error {
	definitions, err := s.Fields.ListDefinitions()
	if err != nil {
		return err
	}
	customKeys := make([]string, 0, len(definitions))
	defByKey := map[string]model.FieldDefinition{}
	for _, d := range definitions {
		customKeys = append(customKeys, d.Key)
		defByKey[d.Key] = d
	}
	sort.Strings(customKeys)

	customers, err := s.Customers.ListAll(p)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)

	header := append([]string{"id"}, coreColumns...)
	header = append(header, "created_at", "updated_at")
	for _, key := range customKeys {
		header = append(header, customPrefix+key)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, c := range customers {
		stored, err := s.Customers.GetCustomValues(c.ID)
		if err != nil {
			return err
		}

		record := []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Company,
			c.Title,
			c.Email,
			c.Phone,
			c.Status,
			strings.Join(c.Tags, ","),
			c.Note,
			c.CreatedAt.UTC().Format(time.RFC3339),
			c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		for _, key := range customKeys {
			record = append(record, exportCell(defByKey[key], stored))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportCell renders one custom value: multi_select lists join on commas,
// everything else exports its stored form.
func exportCell(def model.FieldDefinition, stored map[string]string) string {
	value, ok := stored[def.Key]
	if !ok {
		return ""
	}
	decoded, err := DecodeFieldValue(def, value)
	if err != nil {
		return value
	}
	switch v := decoded.(type) {
	case []string:
		return strings.Join(v, ",")
	case bool:
		if v {
			return "true"
		}
		return "false"
	case string:
		return v
	}
	return value
}
