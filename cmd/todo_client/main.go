package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	grpcadapter "github.com/hijjiri/todo-api/internal/interface/grpc"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

func main() {
	addr := flag.String("addr", "localhost:50051", "gRPC server address")
	mode := flag.String("mode", "list", "mode: create | get | list | stream | update | delete")
	title := flag.String("title", "", "title for create / update")
	desc := flag.String("desc", "", "description for create / update")
	completed := flag.Bool("completed", false, "completed flag for create / update")
	id := flag.Int64("id", 0, "id for get / update / delete")
	token := flag.String("token", "", "bearer token (when the server has AUTH_SECRET)")
	flag.Parse()

	conn, err := grpc.NewClient(
		*addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer conn.Close()

	client := grpcadapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if *token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+*token)
	}

	in := domain_todo.Input{Title: *title, Description: *desc, Completed: *completed}

	switch *mode {
	case "create":
		if *title == "" {
			log.Fatal("title is required for create")
		}
		res, err := client.Create(ctx, in)
		if err != nil {
			log.Fatalf("CreateTodo failed: %v", err)
		}
		fmt.Printf("created: %s\n", format(res))

	case "get":
		res, err := client.Get(ctx, *id)
		if err != nil {
			log.Fatalf("GetTodo failed: %v", err)
		}
		fmt.Println(format(res))

	case "list", "stream":
		list := client.List
		if *mode == "stream" {
			list = client.ListStream
		}
		todos, err := list(ctx)
		if err != nil {
			log.Fatalf("ListTodos failed: %v", err)
		}
		if len(todos) == 0 {
			fmt.Println("no todos")
			return
		}
		fmt.Println("todos:")
		for _, t := range todos {
			fmt.Printf("- %s\n", format(t))
		}

	case "update":
		if *id == 0 || *title == "" {
			log.Fatal("id and title are required for update")
		}
		res, err := client.Update(ctx, *id, in)
		if err != nil {
			log.Fatalf("UpdateTodo failed: %v", err)
		}
		fmt.Printf("updated: %s\n", format(res))

	case "delete":
		if *id == 0 {
			log.Fatal("id is required for delete")
		}
		if err := client.Delete(ctx, *id); err != nil {
			log.Fatalf("DeleteTodo failed: %v", err)
		}
		fmt.Printf("deleted: id=%d\n", *id)

	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
}

func format(t *domain_todo.Todo) string {
	return fmt.Sprintf("id=%d title=%s description=%q completed=%v", t.ID, t.Title, t.Description, t.Completed)
}
