package service_test

import (
	"sort"
	"strings"
	"time"

	appErrors "github.com/unclebandit/crmleopard-backend/internal/errors"
	"github.com/unclebandit/crmleopard-backend/internal/model"
	"github.com/unclebandit/crmleopard-backend/internal/repository"
)

// fakeCustomerRepo is an in-memory stand-in for the Postgres repository. It
// implements enough filtering to exercise the services without a database.
type fakeCustomerRepo struct {
	nextID    int
	customers map[int]*model.Customer
	custom    map[int]map[string]string

	createCalls int
	updateCalls int
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		nextID:    1,
		customers: map[int]*model.Customer{},
		custom:    map[int]map[string]string{},
	}
}

func (f *fakeCustomerRepo) all(p repository.ListParams) []model.Customer {
	ids := make([]int, 0, len(f.customers))
	for id := range f.customers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := []model.Customer{}
	for _, id := range ids {
		c := f.customers[id]
		if p.Status != "" && c.Status != p.Status {
			continue
		}
		if p.Search != "" {
			needle := strings.ToLower(p.Search)
			hay := strings.ToLower(c.Name + " " + c.Email + " " + c.Phone + " " + c.Company)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		if p.Tag != "" {
			found := false
			for _, tag := range c.Tags {
				if tag == p.Tag {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		if p.Company != "" && !strings.EqualFold(c.Company, p.Company) {
			continue
		}
		out = append(out, *c)
	}
	return out
}

func (f *fakeCustomerRepo) List(p repository.ListParams) ([]model.Customer, int, error) {
	matched := f.all(p)
	total := len(matched)

	start := p.Offset()
	if start > total {
		return []model.Customer{}, total, nil
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeCustomerRepo) ListAll(p repository.ListParams) ([]model.Customer, error) {
	return f.all(p), nil
}

func (f *fakeCustomerRepo) GetByID(id int) (*model.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeCustomerRepo) Exists(id int) (bool, error) {
	_, ok := f.customers[id]
	return ok, nil
}

func (f *fakeCustomerRepo) FindByEmail(email string) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) FindByPhone(phone string) (*model.Customer, error) {
	for _, c := range f.customers {
		if c.Phone == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeCustomerRepo) Create(c *model.Customer, custom map[string]*string) error {
	f.createCalls++
	if c.Email != "" {
		if existing, _ := f.FindByEmail(c.Email); existing != nil {
			return appErrors.NewConflict("email already exists")
		}
	}
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	f.customers[c.ID] = &stored
	f.applyCustom(c.ID, custom)
	return nil
}

func (f *fakeCustomerRepo) Update(c *model.Customer, custom map[string]*string) error {
	f.updateCalls++
	if _, ok := f.customers[c.ID]; !ok {
		return appErrors.NewNotFound("customer", c.ID)
	}
	c.UpdatedAt = time.Now()
	stored := *c
	f.customers[c.ID] = &stored
	f.applyCustom(c.ID, custom)
	return nil
}

func (f *fakeCustomerRepo) applyCustom(id int, custom map[string]*string) {
	if f.custom[id] == nil {
		f.custom[id] = map[string]string{}
	}
	for key, value := range custom {
		if value == nil {
			delete(f.custom[id], key)
		} else {
			f.custom[id][key] = *value
		}
	}
}

func (f *fakeCustomerRepo) Delete(id int) error {
	if _, ok := f.customers[id]; !ok {
		return appErrors.NewNotFound("customer", id)
	}
	delete(f.customers, id)
	delete(f.custom, id)
	return nil
}

func (f *fakeCustomerRepo) GetCustomValues(customerID int) (map[string]string, error) {
	out := map[string]string{}
	for key, value := range f.custom[customerID] {
		out[key] = value
	}
	return out, nil
}

var _ repository.CustomerRepositoryInterface = (*fakeCustomerRepo)(nil)

type fakeFieldRepo struct {
	nextID int
	defs   map[string]model.FieldDefinition
}

func newFakeFieldRepo(defs ...model.FieldDefinition) *fakeFieldRepo {
	f := &fakeFieldRepo{nextID: 1, defs: map[string]model.FieldDefinition{}}
	for _, d := range defs {
		d.ID = f.nextID
		f.nextID++
		f.defs[d.Key] = d
	}
	return f
}

func (f *fakeFieldRepo) ListDefinitions() ([]model.FieldDefinition, error) {
	keys := make([]string, 0, len(f.defs))
	for key := range f.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]model.FieldDefinition, 0, len(keys))
	for _, key := range keys {
		out = append(out, f.defs[key])
	}
	return out, nil
}

func (f *fakeFieldRepo) GetByKey(key string) (*model.FieldDefinition, error) {
	d, ok := f.defs[key]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (f *fakeFieldRepo) Create(d *model.FieldDefinition) error {
	if _, ok := f.defs[d.Key]; ok {
		return appErrors.NewConflict("field key already exists")
	}
	d.ID = f.nextID
	f.nextID++
	f.defs[d.Key] = *d
	return nil
}

var _ repository.FieldRepositoryInterface = (*fakeFieldRepo)(nil)

// fakeQueue records published payloads per topic.
type fakeQueue struct {
	published map[string][]any
}

func newFakeQueue() *fakeQueue {
	return &fakeQueue{published: map[string][]any{}}
}

func (f *fakeQueue) Publish(topic string, payload any) error {
	f.published[topic] = append(f.published[topic], payload)
	return nil
}

func (f *fakeQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

type fakeTaskRepo struct {
	nextID int
	tasks  map[int]*model.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{nextID: 1, tasks: map[int]*model.Task{}}
}

func (f *fakeTaskRepo) ListByCustomer(customerID int, p repository.ListParams) ([]model.Task, int, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.CustomerID == customerID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (f *fakeTaskRepo) GetByID(id int) (*model.Task, error) {
	t, ok := f.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRepo) Create(t *model.Task) error {
	t.ID = f.nextID
	f.nextID++
	t.CreatedAt = time.Now()
	stored := *t
	f.tasks[t.ID] = &stored
	return nil
}

func (f *fakeTaskRepo) Update(t *model.Task) error {
	if _, ok := f.tasks[t.ID]; !ok {
		return appErrors.NewNotFound("task", t.ID)
	}
	now := time.Now()
	t.UpdatedAt = &now
	stored := *t
	f.tasks[t.ID] = &stored
	return nil
}

func (f *fakeTaskRepo) Delete(id int) error {
	if _, ok := f.tasks[id]; !ok {
		return appErrors.NewNotFound("task", id)
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) ListPendingSync(limit int) ([]model.Task, error) {
	out := []model.Task{}
	for _, t := range f.tasks {
		if t.SyncEnabled && t.SyncEventID == "" && !t.Done {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) MarkSynced(id int, eventID string) error {
	t, ok := f.tasks[id]
	if !ok {
		return appErrors.NewNotFound("task", id)
	}
	t.SyncEventID = eventID
	return nil
}

var _ repository.TaskRepositoryInterface = (*fakeTaskRepo)(nil)

type fakeInteractionRepo struct {
	nextID       int
	interactions map[int]*model.Interaction
}

func newFakeInteractionRepo() *fakeInteractionRepo {
	return &fakeInteractionRepo{nextID: 1, interactions: map[int]*model.Interaction{}}
}

func (f *fakeInteractionRepo) ListByCustomer(customerID int, p repository.ListParams) ([]model.Interaction, int, error) {
	out := []model.Interaction{}
	for _, i := range f.interactions {
		if i.CustomerID == customerID {
			out = append(out, *i)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, len(out), nil
}

func (f *fakeInteractionRepo) GetByID(id int) (*model.Interaction, error) {
	i, ok := f.interactions[id]
	if !ok {
		return nil, nil
	}
	copied := *i
	return &copied, nil
}

func (f *fakeInteractionRepo) Create(i *model.Interaction) error {
	i.ID = f.nextID
	f.nextID++
	i.CreatedAt = time.Now()
	stored := *i
	f.interactions[i.ID] = &stored
	return nil
}

func (f *fakeInteractionRepo) Update(i *model.Interaction) error {
	if _, ok := f.interactions[i.ID]; !ok {
		return appErrors.NewNotFound("interaction", i.ID)
	}
	stored := *i
	f.interactions[i.ID] = &stored
	return nil
}

func (f *fakeInteractionRepo) Delete(id int) error {
	if _, ok := f.interactions[id]; !ok {
		return appErrors.NewNotFound("interaction", id)
	}
	delete(f.interactions, id)
	return nil
}

var _ repository.InteractionRepositoryInterface = (*fakeInteractionRepo)(nil)

type fakeOpportunityRepo struct {
	nextID        int
	opportunities map[int]*model.Opportunity
}

func newFakeOpportunityRepo() *fakeOpportunityRepo {
	return &fakeOpportunityRepo{nextID: 1, opportunities: map[int]*model.Opportunity{}}
}

func (f *fakeOpportunityRepo) ListByCustomer(customerID int, p repository.ListParams) ([]model.Opportunity, int, error) {
	out := []model.Opportunity{}
	for _, o := range f.opportunities {
		if o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, len(out), nil
}

func (f *fakeOpportunityRepo) GetByID(id int) (*model.Opportunity, error) {
	o, ok := f.opportunities[id]
	if !ok {
		return nil, nil
	}
	copied := *o
	return &copied, nil
}

func (f *fakeOpportunityRepo) Create(o *model.Opportunity) error {
	o.ID = f.nextID
	f.nextID++
	o.CreatedAt = time.Now()
	stored := *o
	f.opportunities[o.ID] = &stored
	return nil
}

func (f *fakeOpportunityRepo) Update(o *model.Opportunity) error {
	if _, ok := f.opportunities[o.ID]; !ok {
		return appErrors.NewNotFound("opportunity", o.ID)
	}
	stored := *o
	f.opportunities[o.ID] = &stored
	return nil
}

func (f *fakeOpportunityRepo) Delete(id int) error {
	if _, ok := f.opportunities[id]; !ok {
		return appErrors.NewNotFound("opportunity", id)
	}
	delete(f.opportunities, id)
	return nil
}

var _ repository.OpportunityRepositoryInterface = (*fakeOpportunityRepo)(nil)
