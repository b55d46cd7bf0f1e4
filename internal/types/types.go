package types

// CommittorSentinel marks a committor field that has not been estimated yet.
const CommittorSentinel = -1.0

// SliceInterval is the number of sweeps between two indexed snapshots.
const SliceInterval = 100

// Simulation is the fixed-schema run configuration shared by every tool.
// Field order matches the on-disk record.
type Simulation struct {
	L                  int32   `yaml:"L"`
	NReplicas          int32   `yaml:"nreplicas"`
	NSweeps            int32   `yaml:"nsweeps"`
	MagOutputInterval  int32   `yaml:"mag_output_int"`
	GridOutputInterval int32   `yaml:"grid_output_int"`
	ThreadsPerBlock    int32   `yaml:"threads_per_block"`
	GPUDevice          int32   `yaml:"gpu_device"`
	GPUMethod          int32   `yaml:"gpu_method"`
	Beta               float64 `yaml:"beta"`
	H                  float64 `yaml:"h"`
}

// Sites returns L², the number of spins in one grid.
func (s Simulation) Sites() int {
	return int(s.L) * int(s.L)
}

// Slices returns the number of indexed snapshots per replica.
func (s Simulation) Slices() int {
	return int(s.NSweeps) / SliceInterval
}

// CatalogLen returns the number of records the index catalog must hold.
func (s Simulation) CatalogLen() int {
	return int(s.NReplicas) * s.Slices()
}

// Record is one catalog row as it appears on disk.
type Record struct {
	Slice         int32
	Grid          int32
	Magnetization int32
	CommittorMean float64
	CommittorStd  float64
}

// Catalog is the columnar in-memory form of the index records.
// All columns always have the same length.
type Catalog struct {
	Slice         []int32
	Grid          []int32
	Magnetization []int32
	CommittorMean []float64
	CommittorStd  []float64

	stash Record
}

// NewCatalog allocates a catalog with n zeroed rows.
func NewCatalog(n int) *Catalog {
	return &Catalog{
		Slice:         make([]int32, n),
		Grid:          make([]int32, n),
		Magnetization: make([]int32, n),
		CommittorMean: make([]float64, n),
		CommittorStd:  make([]float64, n),
	}
}

// Len returns the number of rows.
func (c *Catalog) Len() int { return len(c.Magnetization) }

// Row returns row i as a Record.
func (c *Catalog) Row(i int) Record {
	return Record{
		Slice:         c.Slice[i],
		Grid:          c.Grid[i],
		Magnetization: c.Magnetization[i],
		CommittorMean: c.CommittorMean[i],
		CommittorStd:  c.CommittorStd[i],
	}
}

// SetRow overwrites row i.
func (c *Catalog) SetRow(i int, r Record) {
	c.Slice[i] = r.Slice
	c.Grid[i] = r.Grid
	c.Magnetization[i] = r.Magnetization
	c.CommittorMean[i] = r.CommittorMean
	c.CommittorStd[i] = r.CommittorStd
}

// Stash, Move and Unstash let the permutation engine rotate whole rows
// through a single-row scratch slot.
func (c *Catalog) Stash(i int)       { c.stash = c.Row(i) }
func (c *Catalog) Move(dst, src int) { c.SetRow(dst, c.Row(src)) }
func (c *Catalog) Unstash(dst int)   { c.SetRow(dst, c.stash) }

// Bin is one entry of the stratification table: the contiguous run of sorted
// catalog rows sharing a magnetization. Start is meaningless when Count is 0.
type Bin struct {
	Start int
	Count int
}

// Draw is one Level-A vote: Value was chosen during Round.
type Draw struct {
	Round int
	Value int // shifted magnetization
}

// AggregatedBin is the merged demand on one magnetization bin.
type AggregatedBin struct {
	Value int // shifted magnetization
	Count int
}
