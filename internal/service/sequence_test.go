package service

import (
	"fmt"
	"sort"
	"sync"
	"testing"

	ierr "github.com/feeflow/feeflow/internal/errors"
	"github.com/feeflow/feeflow/internal/testutil"
	"github.com/stretchr/testify/suite"
)

type SequenceServiceSuite struct {
	testutil.BaseServiceTestSuite
	service SequenceService
}

func TestSequenceService(t *testing.T) {
	suite.Run(t, new(SequenceServiceSuite))
}

func (s *SequenceServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewSequenceService(ServiceParams{
		Logger:      s.GetLogger(),
		Config:      s.GetConfig(),
		DB:          s.GetDB(),
		CounterRepo: s.GetStores().CounterRepo,
	})
}

func (s *SequenceServiceSuite) TestNextStartsAtOne() {
	sequence, err := s.service.Next(s.GetContext(), "ABC", "202401")
	s.NoError(err)
	s.Equal(int64(1), sequence)

	sequence, err = s.service.Next(s.GetContext(), "ABC", "202401")
	s.NoError(err)
	s.Equal(int64(2), sequence)
}

func (s *SequenceServiceSuite) TestNextRequiresPeriod() {
	_, err := s.service.Next(s.GetContext(), "ABC", "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *SequenceServiceSuite) TestScopesAreIndependent() {
	_, err := s.service.Next(s.GetContext(), "ABC", "202401")
	s.NoError(err)
	_, err = s.service.Next(s.GetContext(), "ABC", "202401")
	s.NoError(err)

	// A different period starts its own run
	sequence, err := s.service.Next(s.GetContext(), "ABC", "202402")
	s.NoError(err)
	s.Equal(int64(1), sequence)

	// So does a different org in the same period
	sequence, err = s.service.Next(s.GetContext(), "XYZ", "202401")
	s.NoError(err)
	s.Equal(int64(1), sequence)
}

func (s *SequenceServiceSuite) TestConcurrentNextYieldsDistinctNumbers() {
	const n = 50

	results := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sequence, err := s.service.Next(s.GetContext(), "ABC", "202401")
			s.NoError(err)
			results[i] = sequence
		}(i)
	}
	wg.Wait()

	// Every caller got a distinct number and together they form the
	// contiguous run 1..n
	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i, sequence := range results {
		s.Equal(int64(i+1), sequence)
	}
}

func (s *SequenceServiceSuite) TestNoNumberConsumedOnError() {
	store := s.GetStores().CounterRepo

	store.FailWith(fmt.Errorf("counter store unavailable"))
	_, err := s.service.Next(s.GetContext(), "ABC", "202401")
	s.Error(err)

	store.FailWith(nil)
	sequence, err := s.service.Next(s.GetContext(), "ABC", "202401")
	s.NoError(err)
	s.Equal(int64(1), sequence)
}
