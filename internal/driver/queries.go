package driver

const (
	SaveDepartmentNodeQuery = `
		MERGE (d:Department {name: $name})
		SET d.size = $size,
			d.internal_interactions = $internal_interactions,
			d.degree_centrality = $degree_centrality,
			d.betweenness_centrality = $betweenness_centrality,
			d.eigenvector_centrality = $eigenvector_centrality,
			d.updated_at = $updated_at
		RETURN d.name AS name
	`

	SaveInteractionEdgeQuery = `
		MATCH (source:Department {name: $source})
		MATCH (target:Department {name: $target})
		MERGE (source)-[e:INTERACTS_WITH]->(target)
		SET e.weight = $weight,
			e.main_activity_type = $main_activity_type,
			e.updated_at = $updated_at
		RETURN e.weight AS weight
	`

	SavePersonNodeQuery = `
		MERGE (p:Person {id: $id})
		SET p.name = $name,
			p.department = $department,
			p.role = $role,
			p.email = $email,
			p.updated_at = $updated_at
		RETURN p.id AS id
	`

	SaveMembershipEdgeQuery = `
		MATCH (p:Person {id: $person_id})
		MATCH (d:Department {name: $department})
		MERGE (p)-[e:BELONGS_TO]->(d)
		SET e.updated_at = $updated_at
		RETURN p.id AS id
	`

	SaveWorkflowNodeQuery = `
		MERGE (w:Workflow {id: $id})
		SET w.name = $name,
			w.owner_id = $owner_id,
			w.frequency = $frequency,
			w.priority = $priority,
			w.updated_at = $updated_at
		RETURN w.id AS id
	`

	SaveStepNodeQuery = `
		MERGE (s:Step {id: $id})
		SET s.name = $name,
			s.description = $description,
			s.responsible_id = $responsible_id,
			s.duration_hours = $duration_hours,
			s.updated_at = $updated_at
		RETURN s.id AS id
	`

	SaveHasStepEdgeQuery = `
		MATCH (w:Workflow {id: $workflow_id})
		MATCH (s:Step {id: $step_id})
		MERGE (w)-[e:HAS_STEP]->(s)
		SET e.position = $position,
			e.updated_at = $updated_at
		RETURN s.id AS id
	`

	SaveStepDependencyEdgeQuery = `
		MATCH (s:Step {id: $step_id})
		MATCH (dep:Step {id: $dependency_id})
		MERGE (s)-[e:DEPENDS_ON]->(dep)
		SET e.updated_at = $updated_at
		RETURN s.id AS id
	`

	GetDepartmentGraphQuery = `
		MATCH (source:Department)-[e:INTERACTS_WITH]->(target:Department)
		RETURN source.name AS source, target.name AS target, e.weight AS weight
		ORDER BY source.name, target.name
	`
)
