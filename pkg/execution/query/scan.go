package query

import (
	"fmt"

	dberror "relcore/pkg/error"
	"relcore/pkg/execution"
	"relcore/pkg/iterator"
	"relcore/pkg/relation"
	"relcore/pkg/tuple"
)

// Scan reads every row of a base relation. The provider hands out a fresh
// row iterator on each Open and Rewind.
type Scan struct {
	execution.Label
	base     *iterator.BaseIterator
	name     string
	alias    string
	provider relation.Provider
	desc     *tuple.TupleDescription
	rows     iterator.DbIterator
}

// NewScan creates a scan over provider. name is only used for display.
func NewScan(name string, provider relation.Provider) (*Scan, error) {
	if provider == nil {
		return nil, dberror.NewInvalidPlan("scan of %q has no relation", name)
	}

	s := &Scan{
		name:     name,
		provider: provider,
		desc:     provider.Schema(),
	}
	s.base = iterator.NewBaseIterator(s.readNext)
	return s, nil
}

func (s *Scan) readNext() (*tuple.Tuple, error) {
	hasNext, err := s.rows.HasNext()
	if err != nil || !hasNext {
		return nil, err
	}
	return s.rows.Next()
}

func (s *Scan) restart() error {
	if s.rows != nil {
		if err := s.rows.Close(); err != nil {
			return err
		}
	}
	s.rows = s.provider.Rows()
	return s.rows.Open()
}

// Open starts reading the relation from its first row.
func (s *Scan) Open() error {
	if err := s.restart(); err != nil {
		return fmt.Errorf("failed to open scan of %s: %w", s.name, err)
	}
	s.base.MarkOpened()
	return nil
}

func (s *Scan) HasNext() (bool, error) { return s.base.HasNext() }

func (s *Scan) Next() (*tuple.Tuple, error) { return s.base.Next() }

// Rewind asks the provider for a new row iterator.
func (s *Scan) Rewind() error {
	if !s.base.IsOpen() {
		return fmt.Errorf("scan of %s not opened", s.name)
	}
	if err := s.restart(); err != nil {
		return err
	}
	return s.base.Rewind()
}

// Close releases the current row iterator.
func (s *Scan) Close() error {
	var err error
	if s.rows != nil {
		err = s.rows.Close()
		s.rows = nil
	}
	if cerr := s.base.Close(); err == nil {
		err = cerr
	}
	return err
}

// As qualifies every output column with alias.
func (s *Scan) As(alias string) *Scan {
	s.alias = alias
	s.desc = s.provider.Schema().Qualify(alias)
	return s
}

// GetTupleDesc returns the relation schema, qualified when the scan has an
// alias.
func (s *Scan) GetTupleDesc() *tuple.TupleDescription {
	return s.desc
}

// Name returns the relation name the scan was built for.
func (s *Scan) Name() string {
	return s.name
}

func (s *Scan) String() string {
	if s.alias != "" && s.alias != s.name {
		return fmt.Sprintf("Scan %s AS %s", s.name, s.alias)
	}
	return fmt.Sprintf("Scan %s", s.name)
}
