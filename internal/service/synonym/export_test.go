package synonym

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/domain"
)

func seededStore(t *testing.T) *memStore {
	t.Helper()
	store := &memStore{}
	add := func(word string, typ domain.SynonymType, lang string, active bool, syns ...string) {
		_, err := store.Create(context.Background(), &domain.Synonym{
			ID: mustV7(t), Word: word, Synonyms: syns, Type: typ, Language: lang, Active: active,
		})
		require.NoError(t, err)
	}
	add("run", domain.SynonymTypeSynonym, "en", true, "jog", "sprint")
	add("teh", domain.SynonymTypeSpellingError, "en", true, "the")
	add("ice cream", domain.SynonymTypeSynonym, "en", true, "gelato")
	add("car", domain.SynonymTypeSynonym, "en", true, "automobile", "motor vehicle")
	add("laufen", domain.SynonymTypeSynonym, "de", true, "rennen")
	add("hidden", domain.SynonymTypeSynonym, "en", false, "secret")
	return store
}

func TestService_Export_Solr(t *testing.T) {
	t.Parallel()

	svc := newTestService(seededStore(t), defaultImportCfg())

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "solr", Language: "en"})
	require.NoError(t, err)

	want := "run,jog,sprint\n" +
		"teh => the\n" +
		"ice cream,gelato\n" +
		"car,automobile,motor vehicle\n"
	assert.Equal(t, want, string(res.Payload))
	assert.Equal(t, 4, res.Count)
	assert.Equal(t, "solr", res.Plugin)
	assert.Equal(t, "text/plain; charset=utf-8", res.ContentType)
	assert.Equal(t, fixedNow, res.ExportedAt)
}

func TestService_Export_TypeAndFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   ExportInput
		want string
	}{
		{
			name: "spelling errors only",
			in:   ExportInput{Plugin: "solr", Language: "en", Type: "spelling_error"},
			want: "teh => the\n",
		},
		{
			name: "explicit all",
			in:   ExportInput{Plugin: "solr", Language: "de", Type: TypeAll, Filter: FilterAll},
			want: "laufen,rennen\n",
		},
		{
			name: "nospace",
			in:   ExportInput{Plugin: "solr", Language: "en", Type: "synonym", Filter: FilterNoSpace},
			want: "run,jog,sprint\ncar,automobile\n",
		},
		{
			name: "onlyspace",
			in:   ExportInput{Plugin: "solr", Language: "en", Type: "synonym", Filter: FilterOnlySpace},
			want: "ice cream,gelato\ncar,motor vehicle\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := newTestService(seededStore(t), defaultImportCfg())
			res, err := svc.Export(context.Background(), tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(res.Payload))
		})
	}
}

func TestService_Export_UnknownPlugin(t *testing.T) {
	t.Parallel()

	repo := &mockSynonymRepo{
		ListFunc: func(context.Context, domain.SynonymFilter) ([]domain.Synonym, error) {
			t.Error("store must not be queried for an unknown plugin")
			return nil, nil
		},
	}
	svc := newTestService(repo, defaultImportCfg())

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "xml", Language: "en"})
	assert.Nil(t, res)
	require.Error(t, err)

	var upe *domain.UnknownPluginError
	require.True(t, errors.As(err, &upe))
	assert.Equal(t, "xml", upe.ID)
	assert.Contains(t, err.Error(), "solr")
}

func TestService_Export_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(&memStore{}, defaultImportCfg())

	for name, in := range map[string]ExportInput{
		"missing plugin":   {Language: "en"},
		"missing language": {Plugin: "solr"},
		"bad type":         {Plugin: "solr", Language: "en", Type: "antonym"},
		"bad filter":       {Plugin: "solr", Language: "en", Filter: "tabs"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Export(context.Background(), in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestService_Export_PassesFilterToStore(t *testing.T) {
	t.Parallel()

	var got domain.SynonymFilter
	repo := &mockSynonymRepo{
		ListFunc: func(_ context.Context, f domain.SynonymFilter) ([]domain.Synonym, error) {
			got = f
			return nil, nil
		},
	}
	svc := newTestService(repo, defaultImportCfg())

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "json", Language: "en-us", Type: "synonym"})
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(res.Payload))

	require.NotNil(t, got.Type)
	assert.Equal(t, domain.SynonymTypeSynonym, *got.Type)
	assert.Equal(t, "en-US", got.Language)
	assert.True(t, got.ActiveOnly)
	assert.Equal(t, 1001, got.Limit, "one over the cap to detect overflow")
}

func TestService_Export_StoreError(t *testing.T) {
	t.Parallel()

	repo := &mockSynonymRepo{
		ListFunc: func(context.Context, domain.SynonymFilter) ([]domain.Synonym, error) {
			return nil, errStoreDown
		},
	}
	svc := newTestService(repo, defaultImportCfg())

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "csv", Language: "en"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestService_Export_FailsOverRecordLimit(t *testing.T) {
	t.Parallel()

	svc, repo := newSQLiteService(t, config.ExportConfig{MaxRecords: 2})
	for _, word := range []string{"a", "b", "c"} {
		_, err := repo.Create(context.Background(), &domain.Synonym{
			ID: mustV7(t), Word: word, Synonyms: []string{"x"},
			Type: domain.SynonymTypeSynonym, Language: "en", Active: true,
			CreatedAt: fixedNow, ChangedAt: fixedNow, OwnerID: uuid.New(),
		})
		require.NoError(t, err)
	}

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "solr", Language: "en"})
	assert.Nil(t, res)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "more than 2 records")
}

func TestService_Export_AtRecordLimit(t *testing.T) {
	t.Parallel()

	svc, repo := newSQLiteService(t, config.ExportConfig{MaxRecords: 2})
	for _, word := range []string{"a", "b"} {
		_, err := repo.Create(context.Background(), &domain.Synonym{
			ID: mustV7(t), Word: word, Synonyms: []string{"x"},
			Type: domain.SynonymTypeSynonym, Language: "en", Active: true,
			CreatedAt: fixedNow, ChangedAt: fixedNow, OwnerID: uuid.New(),
		})
		require.NoError(t, err)
	}

	res, err := svc.Export(context.Background(), ExportInput{Plugin: "solr", Language: "en"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "a,x\nb,x\n", string(res.Payload))
}
