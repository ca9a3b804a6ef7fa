package service

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

// customPrefix marks CSV columns that map to custom fields, e.g. custom.tier.
const customPrefix = "custom."

// coreColumns is the fixed customer column set; the import header must
// contain all of them and the export writes them in this order.
var coreColumns = []string{"name", "company", "title", "email", "phone", "status", "tags", "note"}

// Import modes.
const (
	ModeUpsert     = "upsert"
	ModeCreateOnly = "create_only"
)

type ImportService struct {
	Customers repository.CustomerRepositoryInterface
	Fields    repository.FieldRepositoryInterface
	Reports   *ReportStore
}

type ImportOptions struct {
	// Mode is upsert (default) or create_only.
	Mode string
	// AutoCreateFields creates a text field definition for unknown
	// custom.<key> columns instead of failing the row.
	AutoCreateFields bool
}

// RowIssue is one rejected row. Row numbers are 1-based over data rows; the
// header row is not counted.
type RowIssue struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// RowSample is a parsed row echoed back for preview.
type RowSample struct {
	Row    int            `json:"row"`
	Parsed map[string]any `json:"parsed"`
}

// DryRunReport summarizes a validation-only pass.
type DryRunReport struct {
	Total   int         `json:"total"`
	Valid   int         `json:"valid"`
	Invalid int         `json:"invalid"`
	Errors  []RowIssue  `json:"errors"`
	Sample  []RowSample `json:"sample"`
}

// ImportResult summarizes a commit pass.
type ImportResult struct {
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	ReportURL string `json:"report_url"`
}

// importRow is one successfully parsed CSV row.
type importRow struct {
	Index    int
	Record   map[string]string
	Input    CustomerInput
	Custom   map[string]*string
	Existing *model.Customer
}

type rowError struct {
	Index   int
	Record  map[string]string
	Message string
}

type parseResult struct {
	Header  []string
	Rows    []importRow
	Errors  []rowError
	NewDefs []model.FieldDefinition
}

// DryRun validates the CSV without touching the store. Existing customers
// are looked up read-only so upsert targets and required custom fields are
// checked exactly as a commit would.
func (s *ImportService) DryRun(csvBytes []byte, opts ImportOptions) (*DryRunReport, error) {
	result, err := s.parse(csvBytes, opts)
	if err != nil {
		return nil, err
	}

	report := &DryRunReport{
		Total:   len(result.Rows) + len(result.Errors),
		Valid:   len(result.Rows),
		Invalid: len(result.Errors),
		Errors:  []RowIssue{},
		Sample:  []RowSample{},
	}
	for _, e := range result.Errors {
		report.Errors = append(report.Errors, RowIssue{Row: e.Index, Message: e.Message})
	}
	for _, row := range result.Rows {
		if len(report.Sample) == 3 {
			break
		}
		report.Sample = append(report.Sample, RowSample{Row: row.Index, Parsed: samplePayload(row)})
	}
	return report, nil
}

// Commit re-runs the same validation and upserts every valid row. Rows are
// processed sequentially so two rows sharing a natural key cannot race; a
// failing row is reported and never blocks the rest.
func (s *ImportService) Commit(csvBytes []byte, opts ImportOptions) (*ImportResult, error) {
	result, err := s.parse(csvBytes, opts)
	if err != nil {
		return nil, err
	}

	for _, def := range result.NewDefs {
		d := def
		if err := s.Fields.Create(&d); err != nil && !appErrors.IsConflict(err) {
			return nil, err
		}
	}

	out := &ImportResult{}
	type reportRow struct {
		Index   int
		Record  map[string]string
		Status  string
		Message string
	}
	reportRows := []reportRow{}

	// In-batch lookups so a second row with the same key updates the row
	// created moments ago instead of duplicating it.
	byEmail := map[string]*model.Customer{}
	byPhone := map[string]*model.Customer{}

	for _, row := range result.Rows {
		existing := row.Existing
		if row.Input.Email != "" && byEmail[row.Input.Email] != nil {
			existing = byEmail[row.Input.Email]
		} else if row.Input.Phone != "" && byPhone[row.Input.Phone] != nil {
			existing = byPhone[row.Input.Phone]
		}

		status, message, customer, err := s.commitRow(row, existing, opts)
		if err != nil {
			if appErrors.IsValidation(err) || appErrors.IsConflict(err) {
				out.Failed++
				reportRows = append(reportRows, reportRow{row.Index, row.Record, "failed", err.Error()})
				continue
			}
			return nil, err
		}

		switch status {
		case "created":
			out.Created++
		case "updated":
			out.Updated++
		case "skipped":
			out.Skipped++
		}
		if customer != nil {
			if customer.Email != "" {
				byEmail[customer.Email] = customer
			}
			if customer.Phone != "" {
				byPhone[customer.Phone] = customer
			}
		}
		reportRows = append(reportRows, reportRow{row.Index, row.Record, status, message})
	}

	out.Failed += len(result.Errors)
	for _, e := range result.Errors {
		reportRows = append(reportRows, reportRow{e.Index, e.Record, "failed", e.Message})
	}

	sort.Slice(reportRows, func(i, j int) bool { return reportRows[i].Index < reportRows[j].Index })

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(append(append([]string{}, result.Header...), "status", "message"))
	for _, r := range reportRows {
		record := make([]string, 0, len(result.Header)+2)
		for _, col := range result.Header {
			record = append(record, r.Record[col])
		}
		w.Write(append(record, r.Status, r.Message))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write import report: %w", err)
	}

	token := uuid.New().String()
	s.Reports.Store(token, buf.String())
	out.ReportURL = "/api/imports/reports/" + token + ".csv"

	log.WithFields(log.Fields{
		"created": out.Created, "updated": out.Updated,
		"skipped": out.Skipped, "failed": out.Failed,
	}).Info("customer import committed")

	return out, nil
}

// commitRow applies one valid row: create when no customer matches the
// natural key, otherwise update, or skip when nothing would change.
func (s *ImportService) commitRow(row importRow, existing *model.Customer, opts ImportOptions) (status, message string, customer *model.Customer, err error) {
	if existing == nil {
		c := &model.Customer{
			Name:    row.Input.Name,
			Company: row.Input.Company,
			Title:   row.Input.Title,
			Email:   row.Input.Email,
			Phone:   row.Input.Phone,
			Status:  row.Input.Status,
			Tags:    row.Input.Tags,
			Note:    row.Input.Note,
		}
		if err := s.Customers.Create(c, row.Custom); err != nil {
			return "", "", nil, err
		}
		return "created", "", c, nil
	}

	if opts.Mode == ModeCreateOnly {
		return "skipped", "existing customer skipped", existing, nil
	}

	stored, err := s.Customers.GetCustomValues(existing.ID)
	if err != nil {
		return "", "", nil, err
	}
	if rowUnchanged(existing, row, stored) {
		return "skipped", "no changes", existing, nil
	}

	existing.Name = row.Input.Name
	existing.Company = row.Input.Company
	existing.Title = row.Input.Title
	existing.Email = row.Input.Email
	existing.Phone = row.Input.Phone
	existing.Status = row.Input.Status
	existing.Tags = row.Input.Tags
	existing.Note = row.Input.Note
	if err := s.Customers.Update(existing, row.Custom); err != nil {
		return "", "", nil, err
	}
	return "updated", "", existing, nil
}

// parse reads the CSV and validates every row independently. It performs
// read-only lookups but never writes; both DryRun and Commit build on it so
// the two modes cannot diverge.
func (s *ImportService) parse(csvBytes []byte, opts ImportOptions) (*parseResult, error) {
	if opts.Mode == "" {
		opts.Mode = ModeUpsert
	}
	if opts.Mode != ModeUpsert && opts.Mode != ModeCreateOnly {
		return nil, appErrors.NewValidation("mode", "must be either upsert or create_only")
	}

	reader := csv.NewReader(bytes.NewReader(csvBytes))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, appErrors.NewValidation("file", "CSV file must include a header row")
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	headerSet := map[string]int{}
	for i, col := range header {
		headerSet[col] = i
	}
	missing := []string{}
	for _, col := range coreColumns {
		if _, ok := headerSet[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, appErrors.NewValidation("file", "missing required columns: "+strings.Join(missing, ", "))
	}

	definitions, err := s.loadDefinitions()
	if err != nil {
		return nil, err
	}

	result := &parseResult{Header: header}

	rowIndex := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowIndex++
			result.Errors = append(result.Errors, rowError{
				Index:   rowIndex,
				Record:  map[string]string{},
				Message: "malformed CSV row: " + err.Error(),
			})
			continue
		}
		rowIndex++

		cells := map[string]string{}
		for col, i := range headerSet {
			if i < len(record) {
				cells[col] = strings.TrimSpace(record[i])
			}
		}

		row, perr := s.parseRow(rowIndex, cells, header, definitions, opts, result)
		if perr != nil {
			result.Errors = append(result.Errors, rowError{Index: rowIndex, Record: cells, Message: perr.Error()})
			continue
		}
		result.Rows = append(result.Rows, *row)
	}

	return result, nil
}

// parseRow validates a single row and resolves its upsert target.
func (s *ImportService) parseRow(
	index int,
	cells map[string]string,
	header []string,
	definitions map[string]model.FieldDefinition,
	opts ImportOptions,
	result *parseResult,
) (*importRow, error) {
	input := CustomerInput{
		Name:    cells["name"],
		Company: cells["company"],
		Title:   cells["title"],
		Email:   cells["email"],
		Phone:   cells["phone"],
		Status:  cells["status"],
		Note:    cells["note"],
	}
	if cells["tags"] != "" {
		input.Tags = normalizeTags(strings.Split(cells["tags"], ","))
	} else {
		input.Tags = []string{}
	}
	if input.Status == "" {
		input.Status = model.StatusLead
	}

	if err := checkStruct(input); err != nil {
		return nil, err
	}
	if !model.ValidStatus(input.Status) {
		return nil, appErrors.NewValidation("status", "must be one of: "+strings.Join(model.CustomerStatuses, " "))
	}

	custom := map[string]*string{}
	for _, col := range header {
		if !strings.HasPrefix(col, customPrefix) {
			continue
		}
		key := strings.TrimPrefix(col, customPrefix)

		def, ok := definitions[key]
		if !ok {
			if !opts.AutoCreateFields {
				return nil, appErrors.NewValidation(key, "unknown custom field")
			}
			if !fieldKeyPattern.MatchString(key) {
				return nil, appErrors.NewValidation(key, "must match pattern [A-Za-z0-9_]")
			}
			def = model.FieldDefinition{Key: key, Label: key, Type: model.FieldText}
			definitions[key] = def
			result.NewDefs = append(result.NewDefs, def)
		}

		raw := cells[col]
		if raw == "" {
			custom[key] = nil
			continue
		}
		encoded, err := EncodeFieldValue(def, raw)
		if err != nil {
			return nil, err
		}
		custom[key] = &encoded
	}

	existing, err := s.lookupExisting(input)
	if err != nil {
		return nil, err
	}

	// Required custom fields must hold a value after merging with whatever
	// the matched customer already has stored.
	var stored map[string]string
	if existing != nil {
		stored, err = s.Customers.GetCustomValues(existing.ID)
		if err != nil {
			return nil, err
		}
	}
	if err := checkRequiredFields(definitions, custom, stored); err != nil {
		return nil, err
	}

	return &importRow{
		Index:    index,
		Record:   cells,
		Input:    input,
		Custom:   custom,
		Existing: existing,
	}, nil
}

func (s *ImportService) lookupExisting(input CustomerInput) (*model.Customer, error) {
	if input.Email != "" {
		c, err := s.Customers.FindByEmail(input.Email)
		if err != nil || c != nil {
			return c, err
		}
	}
	if input.Phone != "" {
		return s.Customers.FindByPhone(input.Phone)
	}
	return nil, nil
}

func (s *ImportService) loadDefinitions() (map[string]model.FieldDefinition, error) {
	list, err := s.Fields.ListDefinitions()
	if err != nil {
		return nil, err
	}
	definitions := map[string]model.FieldDefinition{}
	for _, d := range list {
		definitions[d.Key] = d
	}
	return definitions, nil
}

// rowUnchanged reports whether applying the row would be a no-op write.
func rowUnchanged(existing *model.Customer, row importRow, stored map[string]string) bool {
	in := row.Input
	if existing.Name != in.Name || existing.Company != in.Company ||
		existing.Title != in.Title || existing.Email != in.Email ||
		existing.Phone != in.Phone || existing.Status != in.Status ||
		existing.Note != in.Note {
		return false
	}
	if joinStrings(existing.Tags) != joinStrings(in.Tags) {
		return false
	}
	for key, value := range row.Custom {
		current, has := stored[key]
		if value == nil {
			if has {
				return false
			}
			continue
		}
		if !has || current != *value {
			return false
		}
	}
	return true
}

func joinStrings(items []string) string {
	return strings.Join(items, ",")
}

// checkRequiredFields verifies every required definition still holds a value
// once the row's updates are merged over the stored ones.
func checkRequiredFields(
	definitions map[string]model.FieldDefinition,
	updates map[string]*string,
	stored map[string]string,
) error {
	for key, def := range definitions {
		if !def.Required {
			continue
		}
		if value, ok := updates[key]; ok {
			if value == nil {
				return appErrors.NewValidation(key, "is required")
			}
			continue
		}
		if _, has := stored[key]; !has {
			return appErrors.NewValidation(key, "is required")
		}
	}
	return nil
}

// samplePayload builds the preview shape for a dry-run sample row.
func samplePayload(row importRow) map[string]any {
	custom := map[string]any{}
	for key, value := range row.Custom {
		if value == nil {
			custom[key] = nil
		} else {
			custom[key] = *value
		}
	}
	return map[string]any{
		"name":    row.Input.Name,
		"company": row.Input.Company,
		"title":   row.Input.Title,
		"email":   row.Input.Email,
		"phone":   row.Input.Phone,
		"status":  row.Input.Status,
		"tags":    row.Input.Tags,
		"note":    row.Input.Note,
		"custom":  custom,
	}
}
