package ml

import "sort"

// treeNode is one node of the Gini-split decision tree. Leaves carry the
// majority class of the rows that reached them.
type treeNode struct {
	leaf      bool
	class     int
	feature   int
	threshold float64
	left      *treeNode // rows with feature value <= threshold
	right     *treeNode
}

// fitTree grows a binary classification tree by greedy Gini impurity
// minimization, splitting at midpoints between adjacent distinct feature
// values. Depth and leaf size are bounded by the fixed hyperparameters.
func fitTree(xs [][]float64, ys []int, maxDepth, minLeaf int) *treeNode {
	return growTree(xs, ys, maxDepth, minLeaf)
}

func growTree(xs [][]float64, ys []int, depth, minLeaf int) *treeNode {
	if depth == 0 || len(ys) < 2*minLeaf || pure(ys) {
		return &treeNode{leaf: true, class: majority(ys)}
	}

	feat, thr, ok := bestSplit(xs, ys, minLeaf)
	if !ok {
		return &treeNode{leaf: true, class: majority(ys)}
	}

	var lx, rx [][]float64
	var ly, ry []int
	for i, x := range xs {
		if x[feat] <= thr {
			lx = append(lx, x)
			ly = append(ly, ys[i])
		} else {
			rx = append(rx, x)
			ry = append(ry, ys[i])
		}
	}

	return &treeNode{
		feature:   feat,
		threshold: thr,
		left:      growTree(lx, ly, depth-1, minLeaf),
		right:     growTree(rx, ry, depth-1, minLeaf),
	}
}

func (n *treeNode) predict(x []float64) int {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.class
}

// bestSplit scans every feature and every midpoint threshold and returns
// the split with the lowest weighted Gini impurity.
func bestSplit(xs [][]float64, ys []int, minLeaf int) (feature int, threshold float64, ok bool) {
	best := gini(ys) // only accept splits that improve on the parent
	nFeatures := len(xs[0])

	for f := 0; f < nFeatures; f++ {
		vals := make([]float64, len(xs))
		for i, x := range xs {
			vals[i] = x[f]
		}
		sort.Float64s(vals)

		for i := 1; i < len(vals); i++ {
			if vals[i] == vals[i-1] {
				continue
			}
			thr := (vals[i] + vals[i-1]) / 2

			var ly, ry []int
			for j, x := range xs {
				if x[f] <= thr {
					ly = append(ly, ys[j])
				} else {
					ry = append(ry, ys[j])
				}
			}
			if len(ly) < minLeaf || len(ry) < minLeaf {
				continue
			}
			n := float64(len(ys))
			score := float64(len(ly))/n*gini(ly) + float64(len(ry))/n*gini(ry)
			if score < best {
				best = score
				feature = f
				threshold = thr
				ok = true
			}
		}
	}
	return feature, threshold, ok
}

func gini(ys []int) float64 {
	if len(ys) == 0 {
		return 0
	}
	ones := 0
	for _, y := range ys {
		if y == 1 {
			ones++
		}
	}
	p := float64(ones) / float64(len(ys))
	return 2 * p * (1 - p)
}

func pure(ys []int) bool {
	for _, y := range ys[1:] {
		if y != ys[0] {
			return false
		}
	}
	return true
}

func majority(ys []int) int {
	ones := 0
	for _, y := range ys {
		if y == 1 {
			ones++
		}
	}
	if ones*2 >= len(ys) {
		return 1
	}
	return 0
}
