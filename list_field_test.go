package relaypager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ListField_Resolve(t *testing.T) {
	db := newSQLiteDB(t, 4)
	ctx := context.Background()
	userType := newUserType()

	t.Run("query is passed through unsliced", func(t *testing.T) {
		query := NewQuery[tUser](db).Where("active = ?", true)
		f := NewListField(userType, func(context.Context, Params) (Source[tUser], error) {
			return query, nil
		})

		future, err := f.Resolve(ctx, Params{})
		require.NoError(t, err)
		require.True(t, future.Settled())

		got, err := future.Await(ctx)
		require.NoError(t, err)
		require.Same(t, query, got)
	})

	t.Run("pending source is normalized once settled", func(t *testing.T) {
		release := make(chan struct{})
		f := NewListField(userType, func(context.Context, Params) (Source[tUser], error) {
			return Defer(func() (Source[tUser], error) {
				<-release
				return Materialized[tUser]{{ID: 2}, {ID: 4}}, nil
			}), nil
		})

		future, err := f.Resolve(ctx, Params{})
		require.NoError(t, err)
		require.False(t, future.Settled())

		close(release)
		got, err := future.Await(ctx)
		require.NoError(t, err)

		n, err := got.Len(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(2), n)
	})

	t.Run("resolver error is returned unchanged", func(t *testing.T) {
		boom := errors.New("boom")
		f := NewListField(userType, func(context.Context, Params) (Source[tUser], error) {
			return nil, boom
		})

		_, err := f.Resolve(ctx, Params{})
		require.Equal(t, boom, err)
	})

	t.Run("no resolver", func(t *testing.T) {
		future, err := NewListField[tUser](userType, nil).Resolve(ctx, Params{})
		require.NoError(t, err)

		got, err := future.Await(ctx)
		require.NoError(t, err)
		require.Nil(t, got)
	})
}

func Test_ListField_Model(t *testing.T) {
	f := NewListField[tUser](newUserType(), nil)
	require.Equal(t, "User", f.NodeType().GetName())

	model, err := f.Model()
	require.NoError(t, err)
	require.Equal(t, "users", model.Table)

	_, err = NewListField[int](NewObjectType[int]("Int"), nil).Model()
	require.ErrorContains(t, err, "type 'Int' is not backed by a model")
}
