// Package hdf5 records orcaswarm simulations to HDF5 files and reads them back.
//
// A recording holds one dataset per recorded quantity, each with the step
// index as its first dimension, a "config" dataset whose attributes describe
// the run, and an "obstacles" dataset with every obstacle edge.
package hdf5

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/PrincetonUniversity/orcaswarm"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/hdf5"
)

// A Dataset stipulates how to generate data and where to store them in the HDF5 file.
type Dataset struct {
	// Name the name of the dataset in the HDF5 file.
	Name string

	// Val is a value of the same concrete type as the underlying type of the data.
	Val interface{}

	// Dims are the dimensions of the data for a single step.
	Dims []int

	// Data is a function that produces the data for the current step
	// as a pointer to a slice of row-major concrete values,
	// or a pointer to a single value when Dims is empty.
	Data func(s *orcaswarm.Simulator) interface{}

	dset   *hdf5.Dataset
	fspace *hdf5.Dataspace
	mspace *hdf5.Dataspace
}

// Config holds the parameters of the HDF5 driver.
type Config struct {
	Output   string     // path of output file
	Steps    int        // total number of steps
	Step     func()     // go to next step
	Datasets []*Dataset // list of datasets

	// Params points to a struct whose numeric and string fields
	// are saved as attributes of the config dataset.
	Params interface{}

	RunID    uuid.UUID   // identifies the run, generated when zero
	Progress io.Writer   // receives a percentage while recording, if not nil
	Log      *zap.Logger // defaults to a no-op logger
}

// Run runs a simulation and saves data to an HDF5 file.
func Run(s *orcaswarm.Simulator, conf *Config) (err error) {
	log := conf.Log
	if log == nil {
		log = zap.NewNop()
	}
	if conf.RunID == uuid.Nil {
		conf.RunID = uuid.New()
	}

	if err := os.MkdirAll(filepath.Dir(conf.Output), 0755); err != nil {
		return err
	}

	file, err := hdf5.CreateFile(conf.Output, hdf5.F_ACC_TRUNC)
	if err != nil {
		return err
	}
	defer checkClose(&err, file)

	if err := saveConfig(file, conf); err != nil {
		return err
	}
	if err := saveObstacles(file, s); err != nil {
		return err
	}

	for _, d := range conf.Datasets {
		if err := d.init(file, conf); err != nil {
			return err
		}
		defer checkClose(&err, d)
	}

	log.Info("recording",
		zap.String("output", conf.Output),
		zap.Stringer("run", conf.RunID),
		zap.Int("steps", conf.Steps),
		zap.Int("agents", s.NumAgents()))

	for k := uint(0); k < uint(conf.Steps); k++ {
		if conf.Progress != nil {
			fmt.Fprintf(conf.Progress, "\r% 3d%%", 100*k/uint(conf.Steps))
		}

		for _, d := range conf.Datasets {
			start := make([]uint, len(d.Dims)+1)
			start[0] = k
			if err := d.fspace.SetOffset(start); err != nil {
				return err
			}
			if err := d.dset.WriteSubset(d.Data(s), d.mspace, d.fspace); err != nil {
				return fmt.Errorf("hdf5: writing %s at step %d: %w", d.Name, k, err)
			}
		}

		conf.Step()
	}
	if conf.Progress != nil {
		fmt.Fprintf(conf.Progress, "\r100%%\n")
	}
	log.Info("recording done", zap.Float64("time", s.GlobalTime()), zap.Bool("goals", s.ReachedGoal()))
	return nil
}

// An AgentState is what is recorded in the HDF5 file for each agent at each step.
// This structure is mapped to a compound datatype in HDF5 so member names are important.
type AgentState struct {
	Pos     orcaswarm.Vec2 // position
	Vel     orcaswarm.Vec2 // velocity
	Radius  float64
	Relaxed int32 // 1 if the velocity came from the relaxation fallback
	Removed int32 // 1 once the agent left the simulation
}

// Agents returns the dataset recording the state of n agents at every step.
func Agents(n int) *Dataset {
	buf := make([]AgentState, n)
	return &Dataset{
		Name: "agents",
		Val:  AgentState{},
		Dims: []int{n},
		Data: func(s *orcaswarm.Simulator) interface{} {
			for i := range buf {
				buf[i] = AgentState{
					Pos:    s.AgentPosition(i),
					Vel:    s.AgentVelocity(i),
					Radius: s.AgentRadius(i),
				}
				if s.AgentRelaxed(i) {
					buf[i].Relaxed = 1
				}
				if s.AgentRemoved(i) {
					buf[i].Removed = 1
				}
			}
			return &buf
		},
	}
}

// Time returns the dataset recording the global time at every step.
func Time() *Dataset {
	var t float64
	return &Dataset{
		Name: "time",
		Val:  t,
		Data: func(s *orcaswarm.Simulator) interface{} {
			t = s.GlobalTime()
			return &t
		},
	}
}

// A Segment is one obstacle edge, from A to B.
type Segment struct {
	A, B orcaswarm.Vec2
}

// Segments returns every obstacle edge of s, split edges included.
func Segments(s *orcaswarm.Simulator) []Segment {
	segs := make([]Segment, s.NumObstacleVertices())
	for i := range segs {
		segs[i] = Segment{s.ObstacleVertex(i), s.ObstacleVertex(s.NextObstacleVertexNo(i))}
	}
	return segs
}

// saveObstacles writes the obstacle edges of s to an "obstacles" dataset.
func saveObstacles(file *hdf5.File, s *orcaswarm.Simulator) (err error) {
	segs := Segments(s)
	if len(segs) == 0 {
		return nil
	}

	dtype, err := hdf5.NewDatatypeFromValue(Segment{})
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	space, err := hdf5.CreateSimpleDataspace([]uint{uint(len(segs))}, nil)
	if err != nil {
		return err
	}
	defer checkClose(&err, space)

	dset, err := file.CreateDataset("obstacles", dtype, space)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	return dset.Write(&segs)
}

// saveConfig creates a "config" dataset with a null dataspace whose attributes
// reflect the whole configuration plus some other appropriate metadata.
func saveConfig(file *hdf5.File, conf *Config) (err error) {
	null, err := hdf5.CreateDataspace(hdf5.S_NULL)
	if err != nil {
		return err
	}
	defer checkClose(&err, null)

	anytype, err := hdf5.NewDatatypeFromValue(0)
	if err != nil {
		return err
	}
	defer checkClose(&err, anytype)

	dset, err := file.CreateDataset("config", anytype, null)
	if err != nil {
		return err
	}
	defer checkClose(&err, dset)

	scalar, err := hdf5.CreateDataspace(hdf5.S_SCALAR)
	if err != nil {
		return err
	}
	defer checkClose(&err, scalar)

	now := time.Now().String()
	if err := writeAttr(dset, scalar, "Time", &now); err != nil {
		return err
	}
	run := conf.RunID.String()
	if err := writeAttr(dset, scalar, "RunID", &run); err != nil {
		return err
	}

	if conf.Params == nil {
		return nil
	}
	v := reflect.Indirect(reflect.ValueOf(conf.Params))
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return fmt.Errorf("hdf5: Params must point to a struct, got %T", conf.Params)
	}
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if !v.Type().Field(i).IsExported() {
			continue
		}
		switch f.Kind() {
		case reflect.String, reflect.Int32, reflect.Int64, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
		case reflect.Int:
			// stored as int64 so the attribute does not depend on the platform
			n := f.Int()
			if err := writeAttr(dset, scalar, v.Type().Field(i).Name, &n); err != nil {
				return err
			}
			continue
		case reflect.Bool:
			var b int32
			if f.Bool() {
				b = 1
			}
			if err := writeAttr(dset, scalar, v.Type().Field(i).Name, &b); err != nil {
				return err
			}
			continue
		default:
			continue
		}
		if err := writeAttr(dset, scalar, v.Type().Field(i).Name, f.Addr().Interface()); err != nil {
			return err
		}
	}
	return nil
}

// writeAttr writes the value pointed to by ptr as a scalar attribute of dset.
func writeAttr(dset *hdf5.Dataset, scalar *hdf5.Dataspace, name string, ptr interface{}) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(reflect.ValueOf(ptr).Elem().Interface())
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	attr, err := dset.CreateAttribute(name, dtype, scalar)
	if err != nil {
		return err
	}
	defer checkClose(&err, attr)

	return attr.Write(ptr, dtype)
}

// init creates the dataset and the dataspaces selecting one step.
func (d *Dataset) init(file *hdf5.File, conf *Config) (err error) {
	dtype, err := hdf5.NewDatatypeFromValue(d.Val)
	if err != nil {
		return err
	}
	defer checkClose(&err, dtype)

	udims := make([]uint, len(d.Dims)+1)
	udims[0] = uint(conf.Steps)
	for i, n := range d.Dims {
		udims[i+1] = uint(n)
	}

	d.fspace, err = hdf5.CreateSimpleDataspace(udims, nil)
	if err != nil {
		return err
	}

	start := make([]uint, len(udims))
	count := make([]uint, len(udims))
	copy(count, udims)
	count[0] = 1

	if err := d.fspace.SelectHyperslab(start, nil, count, nil); err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	if len(d.Dims) == 0 {
		d.mspace, err = hdf5.CreateDataspace(hdf5.S_SCALAR)
	} else {
		d.mspace, err = hdf5.CreateSimpleDataspace(udims[1:], nil)
	}
	if err != nil {
		checkClose(&err, d.fspace)
		return err
	}

	d.dset, err = file.CreateDataset(d.Name, dtype, d.fspace)
	if err != nil {
		checkClose(&err, d.fspace)
		checkClose(&err, d.mspace)
	}

	return err
}

// Close closes the HDF5 dataset and Dataspaces.
func (d *Dataset) Close() error {
	if err := d.dset.Close(); err != nil {
		return err
	}
	if err := d.mspace.Close(); err != nil {
		return err
	}
	if err := d.fspace.Close(); err != nil {
		return err
	}
	return nil
}

// checkClose checks for errors in deferred calls.
func checkClose(err *error, c io.Closer) {
	if cerr := c.Close(); *err == nil {
		*err = cerr
	}
}
