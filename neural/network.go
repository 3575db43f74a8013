// Package neural provides the fully connected feedforward networks that
// drive psychic decisions.
package neural

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrTopology is returned for fewer than two layers or an empty layer.
	ErrTopology = errors.New("neural: invalid topology")
	// ErrInvalidInput is returned by Decide for a wrong-length input or a
	// value outside [0,1].
	ErrInvalidInput = errors.New("neural: invalid input")
)

// layer is one fully connected layer: weights is nodes x inputs, biases has
// one entry per node.
type layer struct {
	weights *mat.Dense
	biases  *mat.VecDense
}

// Network is a sigmoid feedforward network.
type Network struct {
	inputs int
	layers []layer
}

// NewNetwork builds a network for the given layer widths (input layer
// first) with every weight and bias drawn uniformly from [-1, 1].
func NewNetwork(rng *rand.Rand, sizes []int) (*Network, error) {
	if err := checkSizes(sizes); err != nil {
		return nil, err
	}
	init := distuv.Uniform{Min: -1, Max: 1, Src: rng}

	n := &Network{inputs: sizes[0], layers: make([]layer, 0, len(sizes)-1)}
	prev := sizes[0]
	for _, width := range sizes[1:] {
		// bias first, then the weights, node by node
		w := make([]float64, width*prev)
		b := make([]float64, width)
		for node := 0; node < width; node++ {
			b[node] = init.Rand()
			for i := 0; i < prev; i++ {
				w[node*prev+i] = init.Rand()
			}
		}
		n.layers = append(n.layers, layer{
			weights: mat.NewDense(width, prev, w),
			biases:  mat.NewVecDense(width, b),
		})
		prev = width
	}
	return n, nil
}

// FromWeights builds a network from explicit weights. weights[l][node] is
// the bias of that node followed by one weight per input of layer l.
func FromWeights(inputs int, weights [][][]float64) (*Network, error) {
	if inputs < 1 || len(weights) == 0 {
		return nil, fmt.Errorf("%w: %d inputs, %d layers", ErrTopology, inputs, len(weights))
	}
	n := &Network{inputs: inputs}
	prev := inputs
	for l, nodes := range weights {
		if len(nodes) == 0 {
			return nil, fmt.Errorf("%w: layer %d is empty", ErrTopology, l+1)
		}
		w := make([]float64, 0, len(nodes)*prev)
		b := make([]float64, 0, len(nodes))
		for i, node := range nodes {
			if len(node) != prev+1 {
				return nil, fmt.Errorf("%w: layer %d node %d has %d weights, want %d",
					ErrTopology, l+1, i, len(node), prev+1)
			}
			b = append(b, node[0])
			w = append(w, node[1:]...)
		}
		n.layers = append(n.layers, layer{
			weights: mat.NewDense(len(nodes), prev, w),
			biases:  mat.NewVecDense(len(nodes), b),
		})
		prev = len(nodes)
	}
	return n, nil
}

func checkSizes(sizes []int) error {
	if len(sizes) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrTopology, len(sizes))
	}
	for i, s := range sizes {
		if s < 1 {
			return fmt.Errorf("%w: layer %d has width %d", ErrTopology, i, s)
		}
	}
	return nil
}

// Decide runs the forward pass and returns the last layer's activations.
func (n *Network) Decide(inputs []float64) ([]float64, error) {
	if len(inputs) != n.inputs {
		return nil, fmt.Errorf("%w: got %d values, want %d", ErrInvalidInput, len(inputs), n.inputs)
	}
	for i, v := range inputs {
		if !(v >= 0 && v <= 1) {
			return nil, fmt.Errorf("%w: input %d = %v outside [0,1]", ErrInvalidInput, i, v)
		}
	}

	x := mat.NewVecDense(len(inputs), append([]float64(nil), inputs...))
	for _, l := range n.layers {
		rows, _ := l.weights.Dims()
		out := mat.NewVecDense(rows, nil)
		out.MulVec(l.weights, x)
		out.AddVec(out, l.biases)
		raw := out.RawVector().Data
		for i := range raw {
			raw[i] = Sigmoid(raw[i])
		}
		x = out
	}
	return append([]float64(nil), x.RawVector().Data...), nil
}

// Mutate visits every weight and bias and, with probability rate, adds a
// uniform perturbation from [-magnitude, magnitude].
func (n *Network) Mutate(rng *rand.Rand, rate, magnitude float64) {
	jitter := distuv.Uniform{Min: -magnitude, Max: magnitude, Src: rng}
	perturb := func(vals []float64) {
		for i := range vals {
			if rng.Float64() >= rate {
				continue
			}
			vals[i] += jitter.Rand()
		}
	}
	for _, l := range n.layers {
		perturb(l.weights.RawMatrix().Data)
		perturb(l.biases.RawVector().Data)
	}
}

// Clone returns a deep copy.
func (n *Network) Clone() *Network {
	c := &Network{inputs: n.inputs, layers: make([]layer, len(n.layers))}
	for i, l := range n.layers {
		c.layers[i] = layer{
			weights: mat.DenseCopyOf(l.weights),
			biases:  mat.VecDenseCopyOf(l.biases),
		}
	}
	return c
}

// Sizes returns the layer widths, input layer first.
func (n *Network) Sizes() []int {
	sizes := []int{n.inputs}
	for _, l := range n.layers {
		rows, _ := l.weights.Dims()
		sizes = append(sizes, rows)
	}
	return sizes
}

// NumInputs returns the width of the input layer.
func (n *Network) NumInputs() int { return n.inputs }

// NumOutputs returns the width of the output layer.
func (n *Network) NumOutputs() int {
	rows, _ := n.layers[len(n.layers)-1].weights.Dims()
	return rows
}

// Weights returns the network in the FromWeights layout.
func (n *Network) Weights() [][][]float64 {
	out := make([][][]float64, len(n.layers))
	for li, l := range n.layers {
		rows, cols := l.weights.Dims()
		nodes := make([][]float64, rows)
		for r := 0; r < rows; r++ {
			node := make([]float64, 0, cols+1)
			node = append(node, l.biases.AtVec(r))
			node = append(node, l.weights.RawRowView(r)...)
			nodes[r] = node
		}
		out[li] = nodes
	}
	return out
}

// Sigmoid is the logistic function 1/(1+e^-x).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
