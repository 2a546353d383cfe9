package model

import "fmt"

// leafChild marks a node without children.
const leafChild = -1

// TreeNode is one node of a fitted decision tree. Nodes are stored depth-first:
// children always come after their parent. Value holds per-class sample
// weights and is only read on leaves.
type TreeNode struct {
	Feature   int       `json:"feature" yaml:"feature"`
	Threshold float64   `json:"threshold" yaml:"threshold"`
	Left      int       `json:"left" yaml:"left"`
	Right     int       `json:"right" yaml:"right"`
	Value     []float64 `json:"value,omitempty" yaml:"value,omitempty"`
}

func (n TreeNode) isLeaf() bool { return n.Left == leafChild }

// DecisionTree is a binary threshold tree: x[feature] <= threshold goes left.
type DecisionTree struct {
	nodes     []TreeNode
	classes   []int
	nFeatures int
}

// NewDecisionTree validates nodes and builds a tree.
func NewDecisionTree(nodes []TreeNode, classes []int, nFeatures int) (*DecisionTree, error) {
	if err := validateNodes(nodes, len(classes), nFeatures); err != nil {
		return nil, err
	}
	return &DecisionTree{nodes: nodes, classes: classes, nFeatures: nFeatures}, nil
}

func validateNodes(nodes []TreeNode, nClasses, nFeatures int) error {
	if len(nodes) == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	for i, n := range nodes {
		if n.isLeaf() {
			if len(n.Value) != nClasses {
				return fmt.Errorf("leaf %d has %d class weights, want %d", i, len(n.Value), nClasses)
			}
			var sum float64
			for _, v := range n.Value {
				if v < 0 {
					return fmt.Errorf("leaf %d has negative class weight", i)
				}
				sum += v
			}
			if sum <= 0 {
				return fmt.Errorf("leaf %d has no class weight", i)
			}
			continue
		}
		if n.Feature < 0 || n.Feature >= nFeatures {
			return fmt.Errorf("node %d: feature index %d out of range [0,%d)", i, n.Feature, nFeatures)
		}
		if n.Left <= i || n.Left >= len(nodes) || n.Right <= i || n.Right >= len(nodes) {
			return fmt.Errorf("node %d: invalid children %d/%d", i, n.Left, n.Right)
		}
	}
	return nil
}

func (t *DecisionTree) Classes() []int   { return t.classes }
func (t *DecisionTree) NumFeatures() int { return t.nFeatures }

// leaf walks x down the tree. Validation guarantees termination.
func (t *DecisionTree) leaf(x []float64) TreeNode {
	n := t.nodes[0]
	for !n.isLeaf() {
		if x[n.Feature] <= n.Threshold {
			n = t.nodes[n.Left]
		} else {
			n = t.nodes[n.Right]
		}
	}
	return n
}

// distribution returns the normalized class weights of the leaf reached by x.
func (t *DecisionTree) distribution(x []float64) []float64 {
	v := t.leaf(x).Value
	var sum float64
	for _, w := range v {
		sum += w
	}
	out := make([]float64, len(v))
	for i, w := range v {
		out[i] = w / sum
	}
	return out
}

func (t *DecisionTree) PredictProba(X [][]float64) ([][]float64, error) {
	if err := checkShape(X, t.nFeatures, "DecisionTree"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = t.distribution(x)
	}
	return out, nil
}

func (t *DecisionTree) Predict(X [][]float64) ([]int, error) {
	proba, err := t.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(proba, t.classes), nil
}

func labelsFromProba(proba [][]float64, classes []int) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = classes[argmax(p)]
	}
	return out
}

// RandomForest averages the leaf distributions of its trees.
type RandomForest struct {
	trees     []*DecisionTree
	classes   []int
	nFeatures int
}

// NewRandomForest builds a forest; every tree shares classes and input width.
func NewRandomForest(trees [][]TreeNode, classes []int, nFeatures int) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	f := &RandomForest{classes: classes, nFeatures: nFeatures}
	for i, nodes := range trees {
		t, err := NewDecisionTree(nodes, classes, nFeatures)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		f.trees = append(f.trees, t)
	}
	return f, nil
}

func (f *RandomForest) Classes() []int   { return f.classes }
func (f *RandomForest) NumFeatures() int { return f.nFeatures }

func (f *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if err := checkShape(X, f.nFeatures, "RandomForestClassifier"); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		acc := make([]float64, len(f.classes))
		for _, t := range f.trees {
			for c, p := range t.distribution(x) {
				acc[c] += p
			}
		}
		for c := range acc {
			acc[c] /= float64(len(f.trees))
		}
		out[i] = acc
	}
	return out, nil
}

func (f *RandomForest) Predict(X [][]float64) ([]int, error) {
	proba, err := f.PredictProba(X)
	if err != nil {
		return nil, err
	}
	return labelsFromProba(proba, f.classes), nil
}
