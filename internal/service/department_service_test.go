package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/academic-records-api/internal/models"
	appErrors "github.com/campuskit/academic-records-api/pkg/errors"
)

type mockDepartmentStore struct {
	departments map[string]models.Department
	listCalls   int
}

func (m *mockDepartmentStore) FindByID(ctx context.Context, id string) (*models.Department, error) {
	if d, ok := m.departments[id]; ok {
		copy := d
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentStore) FindByCode(ctx context.Context, code string) (*models.Department, error) {
	for _, d := range m.departments {
		if d.Code == code {
			copy := d
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockDepartmentStore) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentStore) ExistsByCode(ctx context.Context, code string) (bool, error) {
	for _, d := range m.departments {
		if d.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockDepartmentStore) Create(ctx context.Context, department *models.Department) error {
	if m.departments == nil {
		m.departments = make(map[string]models.Department)
	}
	if department.ID == "" {
		department.ID = "dept-new"
	}
	m.departments[department.ID] = *department
	return nil
}

func (m *mockDepartmentStore) Update(ctx context.Context, department *models.Department) error {
	m.departments[department.ID] = *department
	return nil
}

func (m *mockDepartmentStore) Delete(ctx context.Context, id string) error {
	delete(m.departments, id)
	return nil
}

func (m *mockDepartmentStore) List(ctx context.Context, search string) ([]models.Department, error) {
	m.listCalls++
	var result []models.Department
	for _, d := range m.departments {
		result = append(result, d)
	}
	return result, nil
}

type memoryCache struct {
	entries map[string][]byte
	deleted []string
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.entries == nil {
		c.entries = make(map[string][]byte)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.entries, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func TestDepartmentServiceListCachesUnfiltered(t *testing.T) {
	store := &mockDepartmentStore{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Computer Science", Code: "CSE"},
	}}
	cache := &memoryCache{}
	svc := NewDepartmentService(store, cache, time.Minute, nil, nil, nil)

	first, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, second, 1)

	// The second listing was served from cache.
	assert.Equal(t, 1, store.listCalls)
}

func TestDepartmentServiceListSearchBypassesCache(t *testing.T) {
	store := &mockDepartmentStore{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Computer Science", Code: "CSE"},
	}}
	cache := &memoryCache{}
	svc := NewDepartmentService(store, cache, time.Minute, nil, nil, nil)

	_, err := svc.List(context.Background(), "comp")
	require.NoError(t, err)
	_, err = svc.List(context.Background(), "comp")
	require.NoError(t, err)

	assert.Equal(t, 2, store.listCalls)
	assert.Empty(t, cache.entries)
}

func TestDepartmentServiceCreateInvalidatesCache(t *testing.T) {
	store := &mockDepartmentStore{}
	cache := &memoryCache{}
	svc := NewDepartmentService(store, cache, time.Minute, nil, nil, nil)

	_, err := svc.List(context.Background(), "")
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateDepartmentRequest{Name: "Mathematics", Code: "MATH"})
	require.NoError(t, err)

	assert.Contains(t, cache.deleted, departmentListCacheKey)
}

func TestDepartmentServiceCreateDuplicateName(t *testing.T) {
	store := &mockDepartmentStore{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Mathematics", Code: "MATH"},
	}}
	svc := NewDepartmentService(store, nil, 0, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Mathematics", Code: "MA"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateDepartment)
}

func TestDepartmentServiceCreateDuplicateCode(t *testing.T) {
	store := &mockDepartmentStore{departments: map[string]models.Department{
		"dept-1": {ID: "dept-1", Name: "Mathematics", Code: "MATH"},
	}}
	svc := NewDepartmentService(store, nil, 0, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateDepartmentRequest{Name: "Statistics", Code: "MATH"})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrDuplicateDepartment)
}

func TestDepartmentServiceGetMissing(t *testing.T) {
	svc := NewDepartmentService(&mockDepartmentStore{}, nil, 0, nil, nil, nil)

	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
