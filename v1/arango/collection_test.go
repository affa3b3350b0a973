package arango

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestClient(t *testing.T, cfg Config) (*Client, *MockTransport) {
	t.Helper()
	ctrl := gomock.NewController(t)
	transport := NewMockTransport(ctrl)
	if cfg.Endpoint == "" {
		cfg.Endpoint = "http://localhost:8529"
	}
	if cfg.Database == "" {
		cfg.Database = "shop"
	}
	return NewClient(cfg, transport), transport
}

func raw(s string) json.RawMessage { return json.RawMessage(s) }

func TestCollection_Find(t *testing.T) {
	client, transport := newTestClient(t, Config{BatchSize: 50})
	ctx := context.Background()

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Equal(t, "FOR doc IN @@collection FILTER doc.status == @status LIMIT @pageSkip, @pageLimit RETURN doc", q.Text)
		assert.Equal(t, "users", q.Bindings["@collection"])
		assert.Equal(t, "active", q.Bindings["status"])
		assert.Equal(t, int64(10), q.Bindings["pageLimit"])
		assert.Equal(t, int64(5), q.Bindings["pageSkip"])
		assert.Equal(t, 50, q.BatchSize)
		return &RawResult{Records: records(0, 2)}, nil
	})

	cur, err := client.Collection("users").Find(ctx, Where("status", "active"), 10, 5)
	require.NoError(t, err)
	docs, err := cur.FetchAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k0", "k1"}, keys(docs))
}

func TestCollection_FindRejectsNegativePagination(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	_, err := client.Collection("users").Find(context.Background(), nil, -1, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPagination)
}

func TestCollection_FindOne(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: records(7, 1)}, nil)
	doc, err := users.FindOne(ctx, Where("n", 7))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "k7", doc.Key)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{}, nil)
	doc, err = users.FindOne(ctx, Where("n", 99))
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestCollection_FindOneReleasesOpenCursor(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: records(0, 1), HasMore: true, Handle: "c9"}, nil)
	transport.EXPECT().Release(gomock.Any(), "c9").Return(nil)

	doc, err := client.Collection("users").FindOne(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "k0", doc.Key)
}

func TestCollection_Get(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	_, err := users.Get(ctx, "")
	assert.ErrorIs(t, err, ErrMissingKey)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "doc._key == @v_key")
		assert.Equal(t, "k3", q.Bindings["v_key"])
		return &RawResult{Records: records(3, 1)}, nil
	})
	doc, err := users.Get(ctx, "k3")
	require.NoError(t, err)
	assert.Equal(t, "users/k3", doc.ID)
}

func TestCollection_Insert(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "INSERT {")
		assert.Contains(t, q.Text, "INTO @@collection RETURN NEW")
		assert.Equal(t, "Ada", q.Bindings["name"])
		return &RawResult{Records: []json.RawMessage{raw(`{"_id":"users/1","_key":"1","_rev":"r1","name":"Ada"}`)}}, nil
	})

	doc, err := client.Collection("users").Insert(context.Background(), NewRecord().Set("name", "Ada"))
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Key)
	assert.Equal(t, "r1", doc.Rev)

	name, err := doc.Fields.String("name")
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)
}

func TestCollection_UpdateWithoutKeyFailsBeforeIO(t *testing.T) {
	client, _ := newTestClient(t, Config{})

	_, err := client.Collection("users").Update(context.Background(), "", NewRecord().Set("name", "Ada"))
	require.Error(t, err)
	assert.True(t, IsCompilationError(err))
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestCollection_Update(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "UPDATE @docKey WITH")
		assert.Equal(t, "1", q.Bindings["docKey"])
		return &RawResult{Records: []json.RawMessage{raw(`{"_id":"users/1","_key":"1","_rev":"r2","age":37}`)}}, nil
	})

	doc, err := client.Collection("users").Update(context.Background(), "1", NewRecord().Set("age", 37))
	require.NoError(t, err)
	assert.Equal(t, "r2", doc.Rev)
}

func TestCollection_UpdateMissingDocument(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, &TransportError{StatusCode: 404, ErrorNum: ErrorNumDocumentNotFound, Message: "document not found"})

	_, err := client.Collection("users").Update(context.Background(), "nope", NewRecord().Set("age", 1))
	assert.True(t, IsNotFoundError(err))
}

func TestCollection_Upsert(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	users := client.Collection("users")

	_, err := users.Upsert(context.Background(), "", NewRecord().Set("email", "a@b.c"))
	assert.ErrorIs(t, err, ErrMissingKey)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "UPSERT {")
		assert.Equal(t, "a@b.c", q.Bindings["upsertMatch"])
		return &RawResult{Records: []json.RawMessage{raw(`{"_key":"9","email":"a@b.c"}`)}}, nil
	})
	doc, err := users.Upsert(context.Background(), "email", NewRecord().Set("email", "a@b.c"))
	require.NoError(t, err)
	assert.Equal(t, "9", doc.Key)
}

func TestCollection_Delete(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	_, err := users.Delete(ctx, "")
	assert.ErrorIs(t, err, ErrMissingKey)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "REMOVE @docKey IN @@collection")
		assert.Equal(t, "1", q.Bindings["docKey"])
		return &RawResult{Records: records(1, 1)}, nil
	})
	n, err := users.Delete(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCollection_DeleteMissingKeyIsNotAnError(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: []json.RawMessage{raw(`null`)}}, nil)
	n, err := users.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, &TransportError{StatusCode: 404, ErrorNum: ErrorNumDocumentNotFound})
	n, err = users.Delete(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCollection_DeleteWhere(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	_, err := users.DeleteWhere(ctx, nil)
	assert.ErrorIs(t, err, ErrUnboundedDelete)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "RETURN LENGTH(removed)")
		return &RawResult{Records: []json.RawMessage{raw(`3`)}}, nil
	})
	n, err := users.DeleteWhere(ctx, Where("status", "inactive"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCollection_Count(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()
	users := client.Collection("users")

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Equal(t, "RETURN LENGTH(@@collection)", q.Text)
		return &RawResult{Records: []json.RawMessage{raw(`5`)}}, nil
	}).Times(2)

	n, err := users.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = users.Count(ctx, &Constraint{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Contains(t, q.Text, "COLLECT WITH COUNT INTO total RETURN total")
		return &RawResult{Records: []json.RawMessage{raw(`2`)}}, nil
	})
	n, err = users.Count(ctx, Where("age", 30))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCollection_CountRejectsNonNumericResult(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: []json.RawMessage{raw(`"five"`)}}, nil)

	_, err := client.Collection("users").Count(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestCollection_MissingCollectionSurfaces(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, &TransportError{StatusCode: 404, ErrorNum: ErrorNumCollectionNotFound})

	_, err := client.Collection("ghosts").Count(context.Background(), nil)
	assert.True(t, IsCollectionNotFoundError(err))
}

func TestCollection_EnsureExists(t *testing.T) {
	client, _ := newTestClient(t, Config{})
	ctx := context.Background()

	_, err := client.Collection("users").EnsureExists(ctx)
	assert.ErrorIs(t, err, ErrProvisioningUnsupported)

	prov := NewMockProvisioner(gomock.NewController(t))
	client.WithProvisioner(prov)

	gomock.InOrder(
		prov.EXPECT().EnsureCollection(gomock.Any(), "users").Return(true, nil),
		prov.EXPECT().EnsureCollection(gomock.Any(), "users").Return(false, nil),
	)

	created, err := client.Collection("users").EnsureExists(ctx)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = client.Collection("users").EnsureExists(ctx)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestCollection_AutoProvisionEnsuresOnce(t *testing.T) {
	client, transport := newTestClient(t, Config{AutoProvision: true})
	prov := NewMockProvisioner(gomock.NewController(t))
	client.WithProvisioner(prov)
	ctx := context.Background()

	prov.EXPECT().EnsureCollection(gomock.Any(), "users").Return(true, nil).Times(1)
	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: []json.RawMessage{raw(`0`)}}, nil).Times(2)

	users := client.Collection("users")
	_, err := users.Count(ctx, nil)
	require.NoError(t, err)
	_, err = users.Count(ctx, nil)
	require.NoError(t, err)
}

func TestCollection_AutoProvisionFailureStopsQuery(t *testing.T) {
	client, _ := newTestClient(t, Config{AutoProvision: true})
	prov := NewMockProvisioner(gomock.NewController(t))
	client.WithProvisioner(prov)

	prov.EXPECT().EnsureCollection(gomock.Any(), "users").Return(false, &TransportError{StatusCode: 401, Message: "unauthorized"})

	_, err := client.Collection("users").Count(context.Background(), nil)
	assert.True(t, IsUnauthorizedError(err))
}

func TestCollection_ClosedClient(t *testing.T) {
	client, _ := newTestClient(t, Config{})
	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	ctx := context.Background()
	users := client.Collection("users")

	_, err := users.Count(ctx, nil)
	assert.ErrorIs(t, err, ErrClientClosed)
	_, err = users.Find(ctx, nil, 0, 0)
	assert.ErrorIs(t, err, ErrClientClosed)
	_, err = users.EnsureExists(ctx)
	assert.ErrorIs(t, err, ErrClientClosed)
	_, err = client.Query(ctx, "RETURN 1", nil)
	assert.ErrorIs(t, err, ErrClientClosed)
	assert.ErrorIs(t, client.Ping(ctx), ErrClientClosed)
}

func TestCollection_ReportsToObserver(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	obs := &TestObserver{}
	client.WithObserver(obs)
	ctx := context.Background()
	users := client.Collection("users")

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(&RawResult{Records: records(0, 3)}, nil)
	cur, err := users.Find(ctx, nil, 0, 0)
	require.NoError(t, err)
	require.NoError(t, cur.Close())

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, &TransportError{StatusCode: 500, Message: "boom"})
	_, err = users.Delete(ctx, "k1")
	require.Error(t, err)

	ops := obs.GetOperations()
	require.Len(t, ops, 2)

	assert.Equal(t, "find", ops[0].Operation)
	assert.Equal(t, "users", ops[0].Resource)
	assert.Equal(t, int64(3), ops[0].Size)
	assert.NoError(t, ops[0].Error)

	assert.Equal(t, "delete", ops[1].Operation)
	assert.Equal(t, "k1", ops[1].SubResource)
	assert.True(t, errors.Is(ops[1].Error, ErrTransport))
}

func TestClient_Query(t *testing.T) {
	client, transport := newTestClient(t, Config{BatchSize: 10})
	ctx := context.Background()

	_, err := client.Query(ctx, "", nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Equal(t, "FOR u IN users FILTER u.age >= @min RETURN u", q.Text)
		assert.Equal(t, map[string]any{"min": 18}, q.Bindings)
		assert.Equal(t, 10, q.BatchSize)
		return &RawResult{Records: records(0, 1)}, nil
	})

	cur, err := client.Query(ctx, "FOR u IN users FILTER u.age >= @min RETURN u", map[string]any{"min": 18})
	require.NoError(t, err)
	docs, err := cur.FetchAll(ctx)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestClient_QueryEmptyTransportResult(t *testing.T) {
	client, transport := newTestClient(t, Config{})
	ctx := context.Background()

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, nil)

	cur, err := client.Query(ctx, "RETURN 1", nil)
	require.NoError(t, err)
	assert.False(t, cur.HasMore())
	_, err = cur.Next(ctx)
	assert.ErrorIs(t, err, ErrNoMoreDocuments)
}

func TestClient_PingFallsBackToQuery(t *testing.T) {
	client, transport := newTestClient(t, Config{})

	transport.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, q CompiledQuery) (*RawResult, error) {
		assert.Equal(t, "RETURN 1", q.Text)
		return &RawResult{Records: []json.RawMessage{raw(`1`)}}, nil
	})

	assert.NoError(t, client.Ping(context.Background()))
}

func TestClient_EnsureDatabase(t *testing.T) {
	client, _ := newTestClient(t, Config{Database: "shop"})
	ctx := context.Background()

	_, err := client.EnsureDatabase(ctx)
	assert.ErrorIs(t, err, ErrProvisioningUnsupported)

	prov := NewMockProvisioner(gomock.NewController(t))
	client.WithProvisioner(prov)
	prov.EXPECT().EnsureDatabase(gomock.Any(), "shop").Return(true, nil)

	created, err := client.EnsureDatabase(ctx)
	require.NoError(t, err)
	assert.True(t, created)
}
