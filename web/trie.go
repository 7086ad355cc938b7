package web

import "strings"

type node struct {
	pattern  string  //完整路由，如 /p/:slug，只在终点节点非空
	part     string  //该节点匹配的一段，例如 :slug
	children []*node //子节点
	isWild   bool    //模糊匹配节点，part 以 : 或 * 开头时为 true
}

// 插入时只找第一个精确匹配的子节点
func (n *node) matchChild(part string) *node {
	for _, child := range n.children {
		if child.part == part {
			return child
		}
	}
	return nil
}

// 查找时要收集所有可能的子节点：精确匹配优先，模糊匹配靠后。
// 这样 /healthz 之类的静态路由天然优先于 /:code 这种通配路由。
func (n *node) matchChildren(part string) []*node {
	nodes := make([]*node, 0)
	for _, child := range n.children {
		if child.part == part {
			nodes = append(nodes, child)
		}
	}
	for _, child := range n.children {
		if child.isWild {
			nodes = append(nodes, child)
		}
	}
	return nodes
}

func (n *node) insert(pattern string, parts []string, height int) {
	if len(parts) == height {
		//叶子节点记录完整 pattern，作为路由终点标记
		n.pattern = pattern
		return
	}
	part := parts[height]
	child := n.matchChild(part)
	if child == nil {
		child = &node{
			part:   part,
			isWild: part[0] == ':' || part[0] == '*',
		}
		n.children = append(n.children, child)
	}
	child.insert(pattern, parts, height+1)
}

func (n *node) search(parts []string, height int) *node {
	if len(parts) == height || strings.HasPrefix(n.part, "*") {
		if n.pattern == "" {
			return nil
		}
		return n
	}

	part := parts[height]
	children := n.matchChildren(part)

	for _, child := range children {
		result := child.search(parts, height+1)
		if result != nil {
			return result
		}
	}
	return nil
}
