package operator

import (
	"fmt"

	"github.com/born-ml/microkernels/internal/parallel"
	"github.com/born-ml/microkernels/internal/transpose"
)

// Run executes a set-up operator synchronously, walking the planned tile
// space with the parallel engine. A skip-state operator returns success
// without touching the output buffer.
func (op *Operator) Run() error {
	switch op.state {
	case StateSkip:
		return nil
	case StateReady:
	default:
		logger.Error("failed to run operator: operator not set up",
			"type", op.typ.String(), "state", int(op.state))
		return fmt.Errorf("run %s: %w", op.typ, ErrInvalidState)
	}

	p := &op.plan
	cfg := op.caps.Parallel

	switch p.Tag {
	case transpose.Shape1D:
		parallel.For1DTile1D(p.Range[0], p.Tile[0], func(i, c int) {
			p.Copy(op.y[i:i+c], op.x[i:i+c])
		}, cfg)
	case transpose.Shape2D:
		parallel.For2DTile2D(p.Range[0], p.Range[1], p.Tile[0], p.Tile[1],
			func(i0, i1, c0, c1 int) {
				op.transposeTile(
					i0*p.InStride[0]+i1*p.InStride[1],
					i0*p.OutStride[0]+i1*p.OutStride[1],
					c0, c1)
			}, cfg)
	case transpose.Shape3D:
		parallel.For3DTile2D(p.Range[0], p.Range[1], p.Range[2], p.Tile[0], p.Tile[1],
			func(i0, i1, i2, c1, c2 int) {
				op.transposeTile(
					i0*p.InStride[0]+i1*p.InStride[1]+i2*p.InStride[2],
					i0*p.OutStride[0]+i1*p.OutStride[1]+i2*p.OutStride[2],
					c1, c2)
			}, cfg)
	case transpose.Shape4D:
		parallel.For4DTile2D(p.Range[0], p.Range[1], p.Range[2], p.Range[3], p.Tile[0], p.Tile[1],
			func(i0, i1, i2, i3, c2, c3 int) {
				op.transposeTile(
					i0*p.InStride[0]+i1*p.InStride[1]+i2*p.InStride[2]+i3*p.InStride[3],
					i0*p.OutStride[0]+i1*p.OutStride[1]+i2*p.OutStride[2]+i3*p.OutStride[3],
					c2, c3)
			}, cfg)
	case transpose.Shape5D:
		parallel.For5DTile2D(p.Range[0], p.Range[1], p.Range[2], p.Range[3], p.Range[4], p.Tile[0], p.Tile[1],
			func(i0, i1, i2, i3, i4, c3, c4 int) {
				op.transposeTile(
					i0*p.InStride[0]+i1*p.InStride[1]+i2*p.InStride[2]+i3*p.InStride[3]+i4*p.InStride[4],
					i0*p.OutStride[0]+i1*p.OutStride[1]+i2*p.OutStride[2]+i3*p.OutStride[3]+i4*p.OutStride[4],
					c3, c4)
			}, cfg)
	case transpose.Shape6D:
		parallel.For6DTile2D(p.Range[0], p.Range[1], p.Range[2], p.Range[3], p.Range[4], p.Range[5], p.Tile[0], p.Tile[1],
			func(i0, i1, i2, i3, i4, i5, c4, c5 int) {
				op.transposeTile(
					i0*p.InStride[0]+i1*p.InStride[1]+i2*p.InStride[2]+i3*p.InStride[3]+i4*p.InStride[4]+i5*p.InStride[5],
					i0*p.OutStride[0]+i1*p.OutStride[1]+i2*p.OutStride[2]+i3*p.OutStride[3]+i4*p.OutStride[4]+i5*p.OutStride[5],
					c4, c5)
			}, cfg)
	}
	return nil
}

// transposeTile invokes the planned micro-kernel on one tile. cw is the
// tile extent along the second-to-last loop (the input-contiguous axis),
// ch along the last loop (the output-contiguous axis).
func (op *Operator) transposeTile(inOff, outOff, cw, ch int) {
	p := &op.plan
	r := p.Rank
	x := op.x[inOff:]
	y := op.y[outOff:]
	if p.Variant == transpose.VariantConst {
		p.Const(x, y, p.InStride[r-1], p.OutStride[r-2], cw, ch)
		return
	}
	p.Variable(x, y,
		p.InStride[r-1], p.OutStride[r-2],
		p.InStride[r-2], p.OutStride[r-1],
		p.ElementSize, cw, ch)
}
