package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/f3rmion/dive/internal/store"
	"github.com/f3rmion/dive/internal/trie"
)

type StoreSuite struct {
	suite.Suite
	path string
	s    *store.Store
	ctx  context.Context
}

func (s *StoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.path = filepath.Join(s.T().TempDir(), "data", "userdata.db")
	st, err := store.Open(s.path)
	s.Require().NoError(err)
	s.s = st
}

func (s *StoreSuite) TearDownTest() {
	s.Require().NoError(s.s.Close())
}

func (s *StoreSuite) TestEmptyLoad() {
	data, err := s.s.Load(s.ctx)
	s.Require().NoError(err)
	s.Empty(data.Boosts)
	s.Empty(data.Bigrams)
	s.NotNil(data.Boosts)
}

func (s *StoreSuite) TestSaveReplaces() {
	first := store.UserData{
		Boosts:  map[string]int{"hello": 3, "old": 1},
		Bigrams: map[string]map[string]int{"good": {"morning": 2}},
	}
	s.Require().NoError(s.s.Save(s.ctx, first))

	second := store.UserData{
		Boosts:  map[string]int{"hello": 4, "zero": 0},
		Bigrams: map[string]map[string]int{"good": {"night": 1}, "see": {"you": 5}},
	}
	s.Require().NoError(s.s.Save(s.ctx, second))

	got, err := s.s.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]int{"hello": 4}, got.Boosts)
	s.Equal(map[string]map[string]int{"good": {"night": 1}, "see": {"you": 5}}, got.Bigrams)

	boosts, bigrams, err := s.s.Counts(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, boosts)
	s.Equal(2, bigrams)
}

func (s *StoreSuite) TestPersistsAcrossOpen() {
	s.Require().NoError(s.s.Save(s.ctx, store.UserData{Boosts: map[string]int{"dive": 7}}))
	s.Require().NoError(s.s.Close())

	reopened, err := store.Open(s.path)
	s.Require().NoError(err)
	s.s = reopened

	got, err := s.s.Load(s.ctx)
	s.Require().NoError(err)
	s.Equal(7, got.Boosts["dive"])
}

func (s *StoreSuite) TestClear() {
	s.Require().NoError(s.s.Save(s.ctx, store.UserData{
		Boosts:  map[string]int{"a": 1},
		Bigrams: map[string]map[string]int{"a": {"b": 1}},
	}))
	s.Require().NoError(s.s.Clear(s.ctx))

	boosts, bigrams, err := s.s.Counts(s.ctx)
	s.Require().NoError(err)
	s.Zero(boosts)
	s.Zero(bigrams)
}

func (s *StoreSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	s.Error(s.s.Save(ctx, store.UserData{Boosts: map[string]int{"x": 1}}))
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func TestTrieRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "u.db"))
	require.NoError(t, err)
	defer st.Close()

	src := trie.New()
	require.NoError(t, src.Insert("hello", 5))
	src.BoostFrequency("hello")
	src.BoostFrequency("hello")
	src.RecordBigram("say", "hello")

	require.NoError(t, st.Save(ctx, store.UserData{Boosts: src.ExportUserData(), Bigrams: src.ExportBigramData()}))
	data, err := st.Load(ctx)
	require.NoError(t, err)

	dst := trie.New()
	require.NoError(t, dst.Insert("hello", 5))
	dst.ImportUserData(data.Boosts)
	dst.ImportBigramData(data.Bigrams)
	require.Equal(t, 2, dst.Boost("hello"))
	require.Equal(t, 1, dst.BigramCount("say", "hello"))
}
