package resolver

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	nodex "github.com/tanpawarit/qbd-assistant/agent/nodes/resolver"
)

func (r *Resolver) compileHandleMessageGraph(
	ctx context.Context,
) (compose.Runnable[nodex.GraphInput, nodex.GraphOutput], error) {
	graph := compose.NewGraph[nodex.GraphInput, nodex.GraphOutput]()

	if err := graph.AddLambdaNode(nodex.NodeValidateRequest,
		compose.InvokableLambda(func(ctx context.Context, in nodex.GraphInput) (*nodex.GraphState, error) {
			return nodex.ValidateRequest(in, r.newRef)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeClassify,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.Classify(ctx, in, r.classifier, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHandleCreate,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleCreate(ctx, in, r.inventory, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_create: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHandleRead,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleRead(ctx, in, r.inventory, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_read: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHandleUpdate,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleUpdate(ctx, in, r.inventory, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_update: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHandleList,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleList(ctx, in, r.inventory, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_list: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeHandleUnknown,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (*nodex.GraphState, error) {
			return nodex.HandleUnknown(in)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node handle_unknown: %w", err)
	}

	if err := graph.AddLambdaNode(nodex.NodeComposeReply,
		compose.InvokableLambda(func(ctx context.Context, in *nodex.GraphState) (nodex.GraphOutput, error) {
			return nodex.ComposeReply(ctx, in, r.composer, r.opts)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node compose_reply: %w", err)
	}

	if err := graph.AddBranch(nodex.NodeClassify, compose.NewGraphBranch(nodex.Route, nodex.RouteTargets())); err != nil {
		return nil, fmt.Errorf("add operation branch: %w", err)
	}

	edges := [][2]string{
		{compose.START, nodex.NodeValidateRequest},
		{nodex.NodeValidateRequest, nodex.NodeClassify},
		{nodex.NodeHandleCreate, nodex.NodeComposeReply},
		{nodex.NodeHandleRead, nodex.NodeComposeReply},
		{nodex.NodeHandleUpdate, nodex.NodeComposeReply},
		{nodex.NodeHandleList, nodex.NodeComposeReply},
		{nodex.NodeHandleUnknown, nodex.NodeComposeReply},
		{nodex.NodeComposeReply, compose.END},
	}

	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("resolver.handle_message"))
	if err != nil {
		return nil, fmt.Errorf("compile resolver graph: %w", err)
	}
	return runner, nil
}
