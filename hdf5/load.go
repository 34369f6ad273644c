package hdf5

import (
	"fmt"

	"gonum.org/v1/hdf5"
)

// A Loader sequentially loads the recorded agent states from an HDF5 file.
type Loader struct {
	i uint // index of current slice
	n uint // total number of slices

	data []AgentState // data buffer

	file   *hdf5.File
	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// NewLoader opens a dataset in an HDF5 file and returns an initialized loader.
// The dataset must have been recorded with the Agents dataset.
func NewLoader(filepath, dataset string) (*Loader, error) {
	l := new(Loader)
	var err error
	l.file, err = hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	l.dset, err = l.file.OpenDataset(dataset)
	if err != nil {
		checkClose(&err, l.file)
		return nil, err
	}
	l.fspace = l.dset.Space()
	dims, _, err := l.fspace.SimpleExtentDims()
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}
	if len(dims) != 2 {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("loader: expected 2 dimensions, got %d", len(dims))
	}
	if dims[0] == 0 {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, fmt.Errorf("loader: %s has no recorded step", dataset)
	}
	l.n = dims[0]

	l.mspace, err = hdf5.CreateSimpleDataspace(dims[1:], nil)
	if err != nil {
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	start := []uint{0, 0}
	count := []uint{1, dims[1]}
	if err := l.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, l.mspace)
		checkClose(&err, l.fspace)
		checkClose(&err, l.dset)
		checkClose(&err, l.file)
		return nil, err
	}

	l.data = make([]AgentState, dims[1])

	return l, nil
}

// Steps returns the number of recorded steps.
func (l *Loader) Steps() int { return int(l.n) }

// Agents returns the number of agents in each step.
func (l *Loader) Agents() int { return len(l.data) }

// Load loads the next step available into s
// and cycles when everything has already been loaded.
func (l *Loader) Load(s *[]AgentState) error {
	start := []uint{l.i, 0}
	if err := l.fspace.SetOffset(start); err != nil {
		return err
	}
	l.i = (l.i + 1) % l.n

	if err := l.dset.ReadSubset(&l.data, l.mspace, l.fspace); err != nil {
		return err
	}

	*s = append((*s)[:0], l.data...)
	return nil
}

// Close releases the HDF5 handles of the loader.
func (l *Loader) Close() (err error) {
	defer checkClose(&err, l.file)
	defer checkClose(&err, l.dset)
	defer checkClose(&err, l.fspace)
	defer checkClose(&err, l.mspace)
	return nil
}

// LoadObstacles reads the obstacle edges of a recording.
// A recording without obstacles yields no segment.
func LoadObstacles(filepath string) (segs []Segment, err error) {
	file, err := hdf5.OpenFile(filepath, hdf5.F_ACC_RDONLY)
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, file)

	if !file.LinkExists("obstacles") {
		return nil, nil
	}
	dset, err := file.OpenDataset("obstacles")
	if err != nil {
		return nil, err
	}
	defer checkClose(&err, dset)

	space := dset.Space()
	defer checkClose(&err, space)
	dims, _, err := space.SimpleExtentDims()
	if err != nil {
		return nil, err
	}
	if len(dims) != 1 {
		return nil, fmt.Errorf("loader: expected 1 dimension for obstacles, got %d", len(dims))
	}

	segs = make([]Segment, dims[0])
	if err := dset.Read(&segs); err != nil {
		return nil, err
	}
	return segs, nil
}
